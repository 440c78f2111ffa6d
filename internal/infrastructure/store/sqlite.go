package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"recipe-matcher/internal/core/catalog"
	"recipe-matcher/internal/core/recipe"
	"recipe-matcher/internal/core/recommend"
	"recipe-matcher/internal/pkg/common"
)

const settingsKey = "recommendation"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS recipes (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL DEFAULT '',
		ingredients TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ingredient_merges (
		from_name  TEXT PRIMARY KEY,
		into_name  TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
}

// Store SQLite 持久層，實作 recipe.Repository
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

var _ recipe.Repository = (*Store)(nil)

// Open 開啟資料庫並建立資料表
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// in-memory 資料庫每條連線都是獨立的，只能用一條連線
	if isInMemory(path) {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	} else {
		conn.SetMaxOpenConns(4)
		conn.SetMaxIdleConns(2)
	}
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if !isInMemory(path) {
		if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
			common.LogWarn("無法啟用 WAL 模式", zap.Error(err))
		}
	}
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	common.LogInfo("資料庫已開啟", zap.String("path", path))
	return &Store{conn: conn, now: time.Now}, nil
}

func isInMemory(path string) bool {
	return path == ":memory:" || (strings.HasPrefix(path, "file:") && strings.Contains(path, "mode=memory"))
}

// Close 關閉資料庫
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping 檢查資料庫連線
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// SaveRecipe 新增或取代食譜原文
func (s *Store) SaveRecipe(ctx context.Context, r recipe.StoredRecipe) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO recipes (id, title, ingredients, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, ingredients = excluded.ingredients, updated_at = excluded.updated_at`,
		r.ID, r.Title, r.Ingredients, formatTime(r.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", r.ID, err)
	}
	return nil
}

// DeleteRecipe 刪除食譜，不存在時不視為錯誤
func (s *Store) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", id, err)
	}
	return nil
}

// LoadRecipes 依 ID 排序載入所有食譜
func (s *Store) LoadRecipes(ctx context.Context) ([]recipe.StoredRecipe, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, title, ingredients, updated_at FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var out []recipe.StoredRecipe
	for rows.Next() {
		var r recipe.StoredRecipe
		var updated string
		if err := rows.Scan(&r.ID, &r.Title, &r.Ingredients, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		r.UpdatedAt = parseTime(updated)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveSettings 儲存推薦設定
func (s *Store) SaveSettings(ctx context.Context, settings recommend.Settings) error {
	value, err := common.ToJSON(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		settingsKey, value, formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// LoadSettings 載入推薦設定，尚未儲存過時 ok 為 false
func (s *Store) LoadSettings(ctx context.Context) (recommend.Settings, bool, error) {
	var value string
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, settingsKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.Settings{}, false, nil
	}
	if err != nil {
		return recommend.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}

	var settings recommend.Settings
	if err := common.ParseJSONStrict(value, &settings); err != nil {
		return recommend.Settings{}, false, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, true, nil
}

// SaveMerge 儲存合併紀錄，既有指向 From 的紀錄一併改指向 Into
func (s *Store) SaveMerge(ctx context.Context, m catalog.Merge) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE ingredient_merges SET into_name = ? WHERE into_name = ?`, m.Into, m.From,
	); err != nil {
		return fmt.Errorf("failed to update merges: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ingredient_merges (from_name, into_name, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(from_name) DO UPDATE SET into_name = excluded.into_name`,
		m.From, m.Into, formatTime(s.now()),
	); err != nil {
		return fmt.Errorf("failed to save merge: %w", err)
	}
	return tx.Commit()
}

// LoadMerges 依 From 排序載入所有合併紀錄
func (s *Store) LoadMerges(ctx context.Context) ([]catalog.Merge, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT from_name, into_name FROM ingredient_merges ORDER BY from_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query merges: %w", err)
	}
	defer rows.Close()

	var out []catalog.Merge
	for rows.Next() {
		var m catalog.Merge
		if err := rows.Scan(&m.From, &m.Into); err != nil {
			return nil, fmt.Errorf("failed to scan merge: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}
