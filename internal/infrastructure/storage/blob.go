package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"recipe-manager/internal/pkg/common"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const blobTable = "blobs"

// Blob 圖片等二進位資料
type Blob struct {
	ID        string
	MimeType  string
	Data      []byte
	CreatedAt time.Time
}

// BlobStore 以 SQLite 保存二進位資料，依 id 存取
type BlobStore struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// OpenBlobStore 開啟（必要時建立）SQLite 檔案；path 為 ":memory:" 時使用記憶體資料庫
func OpenBlobStore(ctx context.Context, path string) (*BlobStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create blob dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	// 單一連線，避免並發寫入時 SQLITE_BUSY
	db.SetMaxOpenConns(1)

	s := &BlobStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	common.LogInfo("圖片儲存已開啟", zap.String("path", path))
	return s, nil
}

func (s *BlobStore) init(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS ` + blobTable + ` (
		id TEXT PRIMARY KEY,
		mime_type TEXT NOT NULL,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create blob table: %w", err)
	}
	return nil
}

// Put 寫入或覆蓋
func (s *BlobStore) Put(ctx context.Context, blob Blob) error {
	if blob.ID == "" {
		return fmt.Errorf("blob id is required")
	}
	if blob.CreatedAt.IsZero() {
		blob.CreatedAt = time.Now()
	}

	query, args, err := s.sb.
		Insert(blobTable).
		Columns("id", "mime_type", "data", "created_at").
		Values(blob.ID, blob.MimeType, blob.Data, blob.CreatedAt.UnixMilli()).
		Suffix("ON CONFLICT (id) DO UPDATE SET mime_type = excluded.mime_type, data = excluded.data").
		ToSql()
	if err != nil {
		return fmt.Errorf("build blob insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put blob %s: %w", blob.ID, err)
	}
	return nil
}

// Get 讀取；不存在時回傳 ErrNotFound
func (s *BlobStore) Get(ctx context.Context, id string) (Blob, error) {
	query, args, err := s.sb.
		Select("id", "mime_type", "data", "created_at").
		From(blobTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return Blob{}, fmt.Errorf("build blob select: %w", err)
	}

	var (
		blob    Blob
		created int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&blob.ID, &blob.MimeType, &blob.Data, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Blob{}, ErrNotFound
	}
	if err != nil {
		return Blob{}, fmt.Errorf("get blob %s: %w", id, err)
	}
	blob.CreatedAt = time.UnixMilli(created)
	return blob, nil
}

// Delete 刪除；不存在時不報錯
func (s *BlobStore) Delete(ctx context.Context, id string) error {
	query, args, err := s.sb.
		Delete(blobTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build blob delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

// IDs 列出所有 id，依建立時間排序
func (s *BlobStore) IDs(ctx context.Context) ([]string, error) {
	query, args, err := s.sb.
		Select("id").
		From(blobTable).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build blob list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan blob id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ping 健康檢查
func (s *BlobStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close 關閉資料庫
func (s *BlobStore) Close() error {
	return s.db.Close()
}
