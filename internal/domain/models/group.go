// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxMembers is the capacity a group gets when the caller passes
// zero or a negative value.
const DefaultMaxMembers = 5

// Group is a student team bound to a class and optionally a project template.
//
// NOTE:
//   - Members are not embedded; they live in the members collection and
//     are joined on group_id.
//   - Retirement is a soft delete: the document stays for audit with
//     is_deleted set and the acting user recorded. Purge removes it outright.
type Group struct {
	ID                primitive.ObjectID  `bson:"_id" json:"id"`
	Name              string              `bson:"name" json:"name"`
	NameCI            string              `bson:"name_ci" json:"name_ci"`
	ClassID           string              `bson:"class_id" json:"class_id"`
	ProjectTemplateID *primitive.ObjectID `bson:"project_template_id" json:"project_template_id,omitempty"`
	MaxMembers        int                 `bson:"max_members" json:"max_members"`

	IsDeleted bool       `bson:"is_deleted" json:"is_deleted"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	DeletedBy string     `bson:"deleted_by,omitempty" json:"deleted_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
