package types

import (
  "time"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
)

// Document is a schema-less record in a named collection. Profiles,
// predictions and chat sessions all live here; their payloads carry
// whatever shape the writer used at the time, so readers normalize.
type Document struct {
  gorm.Model
  ID            uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Collection    string              `gorm:"uniqueIndex:idx_collection_doc;not null;column:collection" json:"collection"`
  DocID         string              `gorm:"uniqueIndex:idx_collection_doc;not null;column:doc_id" json:"doc_id"`
  Data          datatypes.JSONMap   `gorm:"type:jsonb;column:data" json:"data"`
  CreatedAt     time.Time           `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt     time.Time           `gorm:"not null;default:now()" json:"updated_at"`
}

func (Document) TableName() string {
  return "document"
}
