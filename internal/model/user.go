package model

import "time"

// Group names seeded into the `user_groups` table. New accounts land in
// GroupUser; moderators and admins count as staff.
const (
    GroupUser      = "user"
    GroupModerator = "moderator"
    GroupAdmin     = "admin"
)

// IsStaff reports whether a group name carries moderation privileges.
func IsStaff(group string) bool {
    return group == GroupModerator || group == GroupAdmin
}

// UserGroup mirrors the `user_groups` table.
type UserGroup struct {
    ID   uint64 // user_groups.id
    Name string // user_groups.name (user | moderator | admin)
}

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column. GroupName is populated by
// queries that join `user_groups`; handlers define separate response
// types with the JSON tags they need.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    GroupID      uint64    // users.group_id -> user_groups.id
    GroupName    string    // joined user_groups.name
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
