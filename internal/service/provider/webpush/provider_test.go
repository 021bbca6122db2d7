package webpush

import (
	"context"
	"crypto/ecdh"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"gitee.com/flycash/webpush-platform/internal/errs"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBrowserKeys 模拟浏览器生成的订阅密钥
func newBrowserKeys(t *testing.T) domain.Keys {
	t.Helper()
	priv, err := ecdh.P256().GenerateKey(rand.Reader)
	require.NoError(t, err)
	auth := make([]byte, 16)
	_, err = rand.Read(auth)
	require.NoError(t, err)
	return domain.Keys{
		P256dh: base64.RawURLEncoding.EncodeToString(priv.PublicKey().Bytes()),
		Auth:   base64.RawURLEncoding.EncodeToString(auth),
	}
}

func newConfig(t *testing.T) Config {
	t.Helper()
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	require.NoError(t, err)
	return Config{
		Subscriber:      "ops@example.com",
		VAPIDPublicKey:  publicKey,
		VAPIDPrivateKey: privateKey,
		Timeout:         time.Second,
	}
}

func TestProvider_Send(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "推送成功",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "aes128gcm", r.Header.Get("Content-Encoding"))
				assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "vapid t="))
				assert.NotEmpty(t, r.Header.Get("TTL"))
				w.WriteHeader(http.StatusCreated)
			},
		},
		{
			name: "端点已删除",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusGone)
			},
			wantErr: errs.ErrEndpointGone,
		},
		{
			name: "端点不存在",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantErr: errs.ErrEndpointGone,
		},
		{
			name: "推送服务限流",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte("slow down"))
			},
			wantErr: errs.ErrDeliveryFailed,
		},
		{
			name: "推送服务超时",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(1500 * time.Millisecond)
				w.WriteHeader(http.StatusCreated)
			},
			wantErr: errs.ErrDeliveryFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			p := NewProvider(newConfig(t))
			err := p.Send(context.Background(), domain.Subscription{
				Endpoint: server.URL + "/push/abc",
				Keys:     newBrowserKeys(t),
			}, []byte(`{"title":"hi","body":"there"}`))
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestProvider_SendUnreachable(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p := NewProvider(newConfig(t))
	err := p.Send(context.Background(), domain.Subscription{
		Endpoint: url,
		Keys:     newBrowserKeys(t),
	}, []byte(`{}`))
	assert.ErrorIs(t, err, errs.ErrDeliveryFailed)
	assert.NotErrorIs(t, err, errs.ErrEndpointGone)
}
