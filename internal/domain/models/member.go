// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member roles. Role is a scalar; the first member added to a group is
// promoted to leader, everyone after that joins as member.
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// Member joins a student to a group. Exactly one document per
// (group_id, student_code); a student may appear in many groups but never
// in two groups that share the same project template.
type Member struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	StudentCode string             `bson:"student_code" json:"student_code"`
	FullName    string             `bson:"full_name" json:"full_name"`
	Role        string             `bson:"role" json:"role"` // "leader" | "member"
	JoinedAt    time.Time          `bson:"joined_at" json:"joined_at"`
}
