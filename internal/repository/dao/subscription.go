package dao

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ego-component/egorm"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// Subscription 推送订阅表
type Subscription struct {
	ID           int64  `gorm:"primaryKey;autoIncrement;comment:'订阅ID'"`
	EndpointHash string `gorm:"type:CHAR(64);NOT NULL;uniqueIndex:uk_endpoint_hash;comment:'endpoint 的 sha256，endpoint 太长不适合直接建唯一索引'"`
	Endpoint     string `gorm:"type:TEXT;NOT NULL;comment:'推送服务地址'"`
	P256dh       string `gorm:"type:VARCHAR(256);comment:'客户端公钥'"`
	Auth         string `gorm:"type:VARCHAR(128);comment:'客户端认证密钥'"`
	Metadata     string `gorm:"type:VARCHAR(512);comment:'客户端信息，一般是 UserAgent'"`
	Ctime        int64
	Utime        int64
}

// TableName 重命名表
func (Subscription) TableName() string {
	return "subscriptions"
}

type SubscriptionDAO interface {
	// Upsert 按照 endpoint 插入或者更新，更新时保留 Ctime
	Upsert(ctx context.Context, sub Subscription) error
	Delete(ctx context.Context, endpoint string) error
	// DeleteStale 只删除快照之后没有再登记过的订阅
	// sub 是之前读出来的快照，库里的 Utime 更新了或者密钥变了都不删
	DeleteStale(ctx context.Context, sub Subscription) error
	FindAll(ctx context.Context) ([]Subscription, error)
	Count(ctx context.Context) (int64, error)
}

type subscriptionDAO struct {
	db *egorm.Component
}

// NewSubscriptionDAO 创建基于 gorm 的订阅 DAO
func NewSubscriptionDAO(db *egorm.Component) SubscriptionDAO {
	return &subscriptionDAO{
		db: db,
	}
}

func (d *subscriptionDAO) Upsert(ctx context.Context, sub Subscription) error {
	now := time.Now().UnixMilli()
	sub.EndpointHash = EndpointHash(sub.Endpoint)
	sub.Ctime = now
	sub.Utime = now
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "metadata", "utime"}),
	}).Create(&sub).Error
	return errors.Wrap(err, "保存订阅失败")
}

func (d *subscriptionDAO) Delete(ctx context.Context, endpoint string) error {
	err := d.db.WithContext(ctx).
		Where("endpoint_hash = ?", EndpointHash(endpoint)).
		Delete(&Subscription{}).Error
	return errors.Wrap(err, "删除订阅失败")
}

func (d *subscriptionDAO) DeleteStale(ctx context.Context, sub Subscription) error {
	err := d.db.WithContext(ctx).
		Where("endpoint_hash = ? AND utime <= ? AND p256dh = ? AND auth = ?",
			EndpointHash(sub.Endpoint), sub.Utime, sub.P256dh, sub.Auth).
		Delete(&Subscription{}).Error
	return errors.Wrap(err, "删除过期订阅失败")
}

func (d *subscriptionDAO) FindAll(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	err := d.db.WithContext(ctx).Find(&subs).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询订阅失败")
	}
	return subs, nil
}

func (d *subscriptionDAO) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := d.db.WithContext(ctx).Model(&Subscription{}).Count(&cnt).Error
	return cnt, errors.Wrap(err, "统计订阅失败")
}

// EndpointHash 唯一索引建在 hash 上
func EndpointHash(endpoint string) string {
	sum := sha256.Sum256([]byte(endpoint))
	return hex.EncodeToString(sum[:])
}
