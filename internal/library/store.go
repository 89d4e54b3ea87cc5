// Package library persists the recipe collection in SQLite.
//
// The store offers two granularities. Load and Save treat the whole
// collection as one value with last-write-wins semantics, matching how
// the mobile client syncs its local copy. Get, Put, Delete, and
// UpdateIngredient are targeted so a single ingredient toggle does not
// rewrite unrelated recipes.
package library

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"cooked/internal/config"
	"cooked/internal/recipe"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the
// schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match
// the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrNotFound indicates the requested recipe or ingredient is absent.
var ErrNotFound = errors.New("not found")

// Store manages recipe persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the library database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "library.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the on-disk location of the database.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Load returns the full collection in insertion order.
func (s *Store) Load(ctx context.Context) ([]recipe.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" FROM recipes ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]recipe.Recipe, 0, 16)
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return recipes, nil
}

// Save replaces the whole collection transactionally: last write wins
// at collection granularity.
func (s *Store) Save(ctx context.Context, recipes []recipe.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM recipes"); err != nil {
		return fmt.Errorf("clear recipes: %w", err)
	}
	for position, r := range recipes {
		if err := insertRecipe(ctx, tx, r, position); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns a single recipe by id.
func (s *Store) Get(ctx context.Context, id string) (recipe.Recipe, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM recipes WHERE id = ?", id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return recipe.Recipe{}, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return r, err
}

// Count returns the number of stored recipes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM recipes").Scan(&count); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return count, nil
}

// Put inserts the recipe or replaces the stored row with the same id.
// New recipes append to the end of the collection order.
func (s *Store) Put(ctx context.Context, r recipe.Recipe) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var position int
	err = tx.QueryRowContext(ctx, "SELECT position FROM recipes WHERE id = ?", r.ID).Scan(&position)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position)+1, 0) FROM recipes").Scan(&position); err != nil {
			return fmt.Errorf("next position: %w", err)
		}
	case err != nil:
		return fmt.Errorf("lookup position: %w", err)
	default:
		if _, err := tx.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", r.ID); err != nil {
			return fmt.Errorf("replace recipe: %w", err)
		}
	}

	if err := insertRecipe(ctx, tx, r, position); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a recipe by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateIngredient applies fn to one ingredient of one recipe and
// persists only that recipe's row. The recipe's UpdatedAt advances.
func (s *Store) UpdateIngredient(ctx context.Context, recipeID, ingredientID string, fn func(*recipe.Ingredient)) (recipe.Recipe, error) {
	r, err := s.Get(ctx, recipeID)
	if err != nil {
		return recipe.Recipe{}, err
	}
	ingredient := r.FindIngredient(ingredientID)
	if ingredient == nil {
		return recipe.Recipe{}, fmt.Errorf("ingredient %s in recipe %s: %w", ingredientID, recipeID, ErrNotFound)
	}
	fn(ingredient)
	r.Touch()
	if err := s.Put(ctx, r); err != nil {
		return recipe.Recipe{}, err
	}
	return r, nil
}

const selectColumns = `SELECT id, title, description, category, status, source,
	source_url, image_uri, cook_date, reminder_enabled,
	ingredients, steps, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (recipe.Recipe, error) {
	var (
		r                recipe.Recipe
		description      sql.NullString
		sourceURL        sql.NullString
		imageURI         sql.NullString
		cookDate         sql.NullString
		reminder         int
		ingredientsJSON  string
		stepsJSON        string
		created, updated string
	)
	err := row.Scan(
		&r.ID, &r.Title, &description, (*string)(&r.Category), (*string)(&r.Status), (*string)(&r.Source),
		&sourceURL, &imageURI, &cookDate, &reminder,
		&ingredientsJSON, &stepsJSON, &created, &updated,
	)
	if err != nil {
		return recipe.Recipe{}, err
	}
	r.Description = description.String
	r.SourceURL = sourceURL.String
	r.ImageURI = imageURI.String
	r.CookDate = cookDate.String
	r.ReminderEnabled = reminder != 0

	if err := json.Unmarshal([]byte(ingredientsJSON), &r.Ingredients); err != nil {
		return recipe.Recipe{}, fmt.Errorf("decode ingredients for %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &r.Steps); err != nil {
		return recipe.Recipe{}, fmt.Errorf("decode steps for %s: %w", r.ID, err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return recipe.Recipe{}, fmt.Errorf("parse created_at for %s: %w", r.ID, err)
	}
	if r.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return recipe.Recipe{}, fmt.Errorf("parse updated_at for %s: %w", r.ID, err)
	}
	return r, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRecipe(ctx context.Context, tx execer, r recipe.Recipe, position int) error {
	ingredients, err := json.Marshal(orEmptyIngredients(r.Ingredients))
	if err != nil {
		return fmt.Errorf("encode ingredients for %s: %w", r.ID, err)
	}
	steps, err := json.Marshal(orEmptySteps(r.Steps))
	if err != nil {
		return fmt.Errorf("encode steps for %s: %w", r.ID, err)
	}

	reminder := 0
	if r.ReminderEnabled {
		reminder = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO recipes (
			id, position, title, description, category, status, source,
			source_url, image_uri, cook_date, reminder_enabled,
			ingredients, steps, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, position, r.Title, nullableString(r.Description),
		string(r.Category), string(r.Status), string(r.Source),
		nullableString(r.SourceURL), nullableString(r.ImageURI), nullableString(r.CookDate), reminder,
		string(ingredients), string(steps),
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert recipe %s: %w", r.ID, err)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func orEmptyIngredients(items []recipe.Ingredient) []recipe.Ingredient {
	if items == nil {
		return []recipe.Ingredient{}
	}
	return items
}

func orEmptySteps(items []recipe.Step) []recipe.Step {
	if items == nil {
		return []recipe.Step{}
	}
	return items
}
