package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "codebase-genius/pkg/errors"
)

// ============================================================================
// Session Operations
// ============================================================================

// LogMessage logs one chat turn and links it to its session
func (r *Repository) LogMessage(ctx context.Context, sessionID, role, content string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	msgID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MERGE (sess:Session {id: $sessionID})
		ON CREATE SET sess.started_at = datetime($now)

		CREATE (m:Message {
			id: $msgID,
			role: $role,
			content: $content,
			timestamp: datetime($now)
		})

		MERGE (sess)-[:CONTAINS]->(m)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"sessionID": sessionID,
		"msgID":     msgID,
		"role":      role,
		"content":   content,
		"now":       now,
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed("log message", err)
	}

	return nil
}

// GetSessionHistory retrieves the most recent messages in chronological order
func (r *Repository) GetSessionHistory(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	if limit < 1 {
		limit = 10
	}

	query := `
		MATCH (sess:Session {id: $sessionID})-[:CONTAINS]->(m:Message)
		RETURN m.id as id, m.role as role, m.content as content, m.timestamp as timestamp
		ORDER BY m.timestamp DESC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"sessionID": sessionID,
		"limit":     limit,
	})
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("get session history", err)
	}

	var messages []Message
	for result.Next(ctx) {
		record := result.Record()
		messages = append(messages, Message{
			ID:        getStringFromRecord(record, "id"),
			Role:      getStringFromRecord(record, "role"),
			Content:   getStringFromRecord(record, "content"),
			Timestamp: getTimeFromRecord(record, "timestamp"),
		})
	}

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// ListSessions summarizes every chat session, newest first
func (r *Repository) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (sess:Session)
		OPTIONAL MATCH (sess)-[:CONTAINS]->(m:Message)
		WITH sess, count(m) as message_count, max(m.timestamp) as last_at
		OPTIONAL MATCH (sess)-[:CONTAINS]->(last:Message)
		WHERE last.timestamp = last_at
		RETURN sess.id as id, sess.started_at as started_at,
		       message_count, last.content as last_message
		ORDER BY sess.started_at DESC
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("list sessions", err)
	}

	var sessions []SessionInfo
	for result.Next(ctx) {
		record := result.Record()
		sessions = append(sessions, SessionInfo{
			ID:           getStringFromRecord(record, "id"),
			StartedAt:    getTimeFromRecord(record, "started_at"),
			MessageCount: getIntFromRecord(record, "message_count"),
			LastMessage:  getStringFromRecord(record, "last_message"),
		})
	}
	return sessions, nil
}
