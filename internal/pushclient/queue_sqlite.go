package pushclient

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitee.com/flycash/webpush-platform/internal/domain"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const createOfflineActionsTable = `CREATE TABLE IF NOT EXISTS offline_actions (
	seq             INTEGER PRIMARY KEY AUTOINCREMENT,
	id              TEXT NOT NULL UNIQUE,
	action          TEXT NOT NULL,
	notification_id TEXT NOT NULL,
	payload         BLOB,
	ctime           INTEGER NOT NULL
)`

// SQLiteQueue 设备重启之后离线动作还在
type SQLiteQueue struct {
	db *sql.DB
}

func NewSQLiteQueue(path string) (*SQLiteQueue, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "打开离线队列失败")
	}
	// 单连接，:memory: 也只有一份数据
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	_, _ = db.Exec("PRAGMA journal_mode = WAL")

	if _, err = db.Exec(createOfflineActionsTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "初始化离线队列失败")
	}
	return &SQLiteQueue{db: db}, nil
}

func (q *SQLiteQueue) Enqueue(ctx context.Context, rec domain.OfflineActionRecord) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO offline_actions(id, action, notification_id, payload, ctime) VALUES(?,?,?,?,?)`,
		rec.ID, rec.Action, rec.NotificationID, rec.Payload, rec.CreatedAt.UnixMilli())
	return errors.Wrap(err, "写入离线动作失败")
}

func (q *SQLiteQueue) List(ctx context.Context) ([]domain.OfflineActionRecord, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, action, notification_id, payload, ctime FROM offline_actions ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "查询离线动作失败")
	}
	defer rows.Close()

	var res []domain.OfflineActionRecord
	for rows.Next() {
		var (
			rec   domain.OfflineActionRecord
			ctime int64
		)
		if err = rows.Scan(&rec.ID, &rec.Action, &rec.NotificationID, &rec.Payload, &ctime); err != nil {
			return nil, errors.Wrap(err, "读取离线动作失败")
		}
		rec.CreatedAt = time.UnixMilli(ctime)
		res = append(res, rec)
	}
	return res, errors.Wrap(rows.Err(), "读取离线动作失败")
}

func (q *SQLiteQueue) Remove(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM offline_actions WHERE id = ?`, id)
	return errors.Wrap(err, "删除离线动作失败")
}

func (q *SQLiteQueue) Close() error {
	return q.db.Close()
}
