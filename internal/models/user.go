package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleMember  UserRole = "member"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
	UserPending  UserStatus = "pending"
)

// User is an account in the multi-user variant
type User struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	Avatar      string     `json:"avatar,omitempty"`
	Role        UserRole   `json:"role"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

type Permission string

const (
	PermViewTasks      Permission = "view_tasks"
	PermCreateTasks    Permission = "create_tasks"
	PermEditOwnTasks   Permission = "edit_own_tasks"
	PermEditAllTasks   Permission = "edit_all_tasks"
	PermDeleteOwnTasks Permission = "delete_own_tasks"
	PermDeleteAllTasks Permission = "delete_all_tasks"
	PermAssignTasks    Permission = "assign_tasks"
	PermManageMembers  Permission = "manage_members"
	PermManageSettings Permission = "manage_settings"
)

// OwnerPermissions is the full permission set given to team owners
var OwnerPermissions = []Permission{
	PermViewTasks, PermCreateTasks, PermEditOwnTasks, PermEditAllTasks,
	PermDeleteOwnTasks, PermDeleteAllTasks, PermAssignTasks,
	PermManageMembers, PermManageSettings,
}

// MemberPermissions is the default permission set for regular members
var MemberPermissions = []Permission{
	PermViewTasks, PermCreateTasks, PermEditOwnTasks, PermDeleteOwnTasks,
}

// Team groups users who share tasks
type Team struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedBy   string       `json:"createdBy"`
	Members     []TeamMember `json:"members"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Settings    TeamSettings `json:"settings"`
}

// HasMember reports whether userID belongs to the team
func (t Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

type TeamMember struct {
	UserID      string       `json:"userId"`
	User        User         `json:"user"`
	Role        TeamRole     `json:"role"`
	JoinedAt    time.Time    `json:"joinedAt"`
	Permissions []Permission `json:"permissions"`
}

type TeamSettings struct {
	AllowMemberInvite       bool       `json:"allowMemberInvite"`
	AllowMemberCreateTasks  bool       `json:"allowMemberCreateTasks"`
	AllowMemberEditAllTasks bool       `json:"allowMemberEditAllTasks"`
	TaskVisibility          Visibility `json:"taskVisibility"`
}

// AuthState is the session as seen by the rest of the app
type AuthState struct {
	User            *User  `json:"user"`
	Token           string `json:"token"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsLoading       bool   `json:"isLoading"`
	Error           string `json:"error,omitempty"`
}

type Credentials struct {
	Username string
	Password string
}

type Registration struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}
