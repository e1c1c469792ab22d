package dynamodb

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dreamspeak/domain/dream"
)

// Single-table layout:
//
//	dream      PK=DREAM#<id>      SK=METADATA  GSI1=USER#<userId> / <createdAt>#<id>
//	message    PK=MESSAGE#<id>    SK=METADATA  GSI1=THREAD#<dreamId|GLOBAL> / <createdAt>#<id>
//	                                           GSI2=CHAT / <createdAt>#<id>
//	user       PK=USER#<id>       SK=PROFILE
//	username   PK=USERNAME#<name> SK=USER      (uniqueness guard)
//	counter    PK=COUNTER#<kind>  SK=COUNTER
const (
	skMetadata = "METADATA"
	skProfile  = "PROFILE"
	skUsername = "USER"
	skCounter  = "COUNTER"

	entityDream    = "DREAM"
	entityMessage  = "MESSAGE"
	entityUser     = "USER"
	entityUsername = "USERNAME"

	threadGlobal = "GLOBAL"
	chatFeedPK   = "CHAT"

	timeLayout = time.RFC3339Nano
	// fixed width so lexical order of sort keys is chronological order
	sortKeyLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func dreamPK(id int64) string { return fmt.Sprintf("DREAM#%d", id) }
func messagePK(id int64) string { return fmt.Sprintf("MESSAGE#%d", id) }
func userPK(id int64) string { return fmt.Sprintf("USER#%d", id) }
func usernamePK(n string) string { return "USERNAME#" + strings.ToLower(n) }
func counterPK(kind string) string { return "COUNTER#" + kind }

// sortKey orders by time, then id; ids are zero padded so ties sort numerically
func sortKey(t time.Time, id int64) string {
	return fmt.Sprintf("%s#%019d", t.UTC().Format(sortKeyLayout), id)
}

func threadPK(dreamID *int64) string {
	if dreamID == nil {
		return "THREAD#" + threadGlobal
	}
	return fmt.Sprintf("THREAD#%d", *dreamID)
}

type dreamItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	GSI1PK     string   `dynamodbav:"GSI1PK"`
	GSI1SK     string   `dynamodbav:"GSI1SK"`
	EntityType string   `dynamodbav:"EntityType"`
	ID         int64    `dynamodbav:"ID"`
	UserID     int64    `dynamodbav:"UserID"`
	Title      string   `dynamodbav:"Title"`
	Content    string   `dynamodbav:"Content"`
	Analysis   *string  `dynamodbav:"Analysis,omitempty"`
	Archetypes []string `dynamodbav:"Archetypes,omitempty"`
	Symbols    []string `dynamodbav:"Symbols,omitempty"`
	ImageURL   *string  `dynamodbav:"ImageURL,omitempty"`
	CreatedAt  string   `dynamodbav:"CreatedAt"`
}

func newDreamItem(d *dream.Dream) dreamItem {
	return dreamItem{
		PK:         dreamPK(d.ID),
		SK:         skMetadata,
		GSI1PK:     userPK(d.UserID),
		GSI1SK:     sortKey(d.CreatedAt, d.ID),
		EntityType: entityDream,
		ID:         d.ID,
		UserID:     d.UserID,
		Title:      d.Title,
		Content:    d.Content,
		Analysis:   d.Analysis,
		Archetypes: d.Archetypes,
		Symbols:    d.Symbols,
		ImageURL:   d.ImageURL,
		CreatedAt:  d.CreatedAt.UTC().Format(timeLayout),
	}
}

func (i dreamItem) toDomain() (*dream.Dream, error) {
	createdAt, err := time.Parse(timeLayout, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt on %s: %w", i.PK, err)
	}
	return &dream.Dream{
		ID:         i.ID,
		UserID:     i.UserID,
		Title:      i.Title,
		Content:    i.Content,
		Analysis:   i.Analysis,
		Archetypes: i.Archetypes,
		Symbols:    i.Symbols,
		ImageURL:   i.ImageURL,
		CreatedAt:  createdAt,
	}, nil
}

type messageItem struct {
	PK          string  `dynamodbav:"PK"`
	SK          string  `dynamodbav:"SK"`
	GSI1PK      string  `dynamodbav:"GSI1PK"`
	GSI1SK      string  `dynamodbav:"GSI1SK"`
	GSI2PK      string  `dynamodbav:"GSI2PK"`
	GSI2SK      string  `dynamodbav:"GSI2SK"`
	EntityType  string  `dynamodbav:"EntityType"`
	ID          int64   `dynamodbav:"ID"`
	DreamID     *int64  `dynamodbav:"DreamID,omitempty"`
	Role        string  `dynamodbav:"Role"`
	Content     string  `dynamodbav:"Content"`
	MessageType *string `dynamodbav:"MessageType,omitempty"`
	// Metadata is kept as a JSON document so arbitrary shapes survive unchanged
	Metadata  string `dynamodbav:"Metadata,omitempty"`
	CreatedAt string `dynamodbav:"CreatedAt"`
}

func newMessageItem(m *dream.ChatMessage) (messageItem, error) {
	key := sortKey(m.CreatedAt, m.ID)
	item := messageItem{
		PK:          messagePK(m.ID),
		SK:          skMetadata,
		GSI1PK:      threadPK(m.DreamID),
		GSI1SK:      key,
		GSI2PK:      chatFeedPK,
		GSI2SK:      key,
		EntityType:  entityMessage,
		ID:          m.ID,
		DreamID:     m.DreamID,
		Role:        string(m.Role),
		Content:     m.Content,
		MessageType: m.MessageType,
		CreatedAt:   m.CreatedAt.UTC().Format(timeLayout),
	}
	if m.Metadata != nil {
		raw, err := json.Marshal(m.Metadata)
		if err != nil {
			return messageItem{}, fmt.Errorf("failed to encode metadata: %w", err)
		}
		item.Metadata = string(raw)
	}
	return item, nil
}

func (i messageItem) toDomain() (*dream.ChatMessage, error) {
	createdAt, err := time.Parse(timeLayout, i.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid CreatedAt on %s: %w", i.PK, err)
	}
	m := &dream.ChatMessage{
		ID:          i.ID,
		DreamID:     i.DreamID,
		Role:        dream.Role(i.Role),
		Content:     i.Content,
		MessageType: i.MessageType,
		CreatedAt:   createdAt,
	}
	if i.Metadata != "" {
		if err := json.Unmarshal([]byte(i.Metadata), &m.Metadata); err != nil {
			return nil, fmt.Errorf("invalid Metadata on %s: %w", i.PK, err)
		}
	}
	return m, nil
}

type userItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	ID         int64  `dynamodbav:"ID"`
	Username   string `dynamodbav:"Username"`
	Password   string `dynamodbav:"Password"`
}

type usernameItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	UserID     int64  `dynamodbav:"UserID"`
}
