package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hrygo/moodtales/store"
)

func (d *DB) CreateStoryEntry(ctx context.Context, create *store.StoryEntry) (*store.StoryEntry, error) {
	expressions, err := json.Marshal(create.Expressions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expressions: %w", err)
	}

	fields := []string{"uid", "created_ts", "image_data", "mood", "expressions", "story", "illustration"}
	args := []any{create.UID, create.CreatedTs, create.ImageData, create.Mood, string(expressions), create.Story, create.Illustration}
	stmt := `INSERT INTO story_entry (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create story entry: %w", err)
	}

	return create, nil
}

func (d *DB) ListStoryEntries(ctx context.Context, find *store.FindStoryEntry) ([]*store.StoryEntry, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}

	query := `SELECT id, uid, created_ts, image_data, mood, expressions, story, illustration
		FROM story_entry
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC`
	if find.Limit != nil {
		query += " LIMIT " + placeholder(len(args)+1)
		args = append(args, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list story entries: %w", err)
	}
	defer rows.Close()

	list := []*store.StoryEntry{}
	for rows.Next() {
		entry := &store.StoryEntry{}
		var expressions string
		if err := rows.Scan(
			&entry.ID,
			&entry.UID,
			&entry.CreatedTs,
			&entry.ImageData,
			&entry.Mood,
			&expressions,
			&entry.Story,
			&entry.Illustration,
		); err != nil {
			return nil, fmt.Errorf("failed to scan story entry: %w", err)
		}
		if err := json.Unmarshal([]byte(expressions), &entry.Expressions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal expressions: %w", err)
		}
		list = append(list, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
