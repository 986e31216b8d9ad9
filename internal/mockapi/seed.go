package mockapi

import (
	"time"

	"github.com/balkashynov/taskman/internal/models"
)

// Password is the one password every account accepts
const Password = "password"

func day(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.Local)
	return t
}

func seedUsers(now time.Time) []models.User {
	return []models.User{
		{
			ID:          "user-1",
			Username:    "admin",
			Email:       "admin@example.com",
			DisplayName: "管理员",
			Role:        models.RoleAdmin,
			Status:      models.UserActive,
			CreatedAt:   day("2024-01-01"),
			UpdatedAt:   now,
			LastLoginAt: &now,
		},
		{
			ID:          "user-2",
			Username:    "alice",
			Email:       "alice@example.com",
			DisplayName: "Alice Wang",
			Role:        models.RoleMember,
			Status:      models.UserActive,
			CreatedAt:   day("2024-01-02"),
			UpdatedAt:   now,
		},
		{
			ID:          "user-3",
			Username:    "bob",
			Email:       "bob@example.com",
			DisplayName: "Bob Chen",
			Role:        models.RoleMember,
			Status:      models.UserActive,
			CreatedAt:   day("2024-01-03"),
			UpdatedAt:   now,
		},
	}
}

func defaultTeamSettings() models.TeamSettings {
	return models.TeamSettings{
		AllowMemberInvite:       false,
		AllowMemberCreateTasks:  true,
		AllowMemberEditAllTasks: false,
		TaskVisibility:          models.VisibilityPublic,
	}
}

func seedTeams(users []models.User, now time.Time) []models.Team {
	return []models.Team{
		{
			ID:          "team-1",
			Name:        "开发团队",
			Description: "项目开发小组",
			CreatedBy:   "user-1",
			Members: []models.TeamMember{
				{UserID: "user-1", User: users[0], Role: models.TeamRoleOwner, JoinedAt: day("2024-01-01"), Permissions: models.OwnerPermissions},
				{UserID: "user-2", User: users[1], Role: models.TeamRoleMember, JoinedAt: day("2024-01-02"), Permissions: models.MemberPermissions},
				{UserID: "user-3", User: users[2], Role: models.TeamRoleMember, JoinedAt: day("2024-01-03"), Permissions: models.MemberPermissions},
			},
			CreatedAt: day("2024-01-01"),
			UpdatedAt: now,
			Settings:  defaultTeamSettings(),
		},
	}
}

func seedTasks(now time.Time) []models.Task {
	week := now.Add(7 * 24 * time.Hour)
	fortnight := now.Add(14 * 24 * time.Hour)
	return []models.Task{
		{
			ID:            "task-1",
			Title:         "设计用户界面",
			Description:   "为新功能设计用户界面",
			Status:        models.StatusInProgress,
			Priority:      models.PriorityHigh,
			DueDate:       &week,
			CreatedAt:     day("2024-01-01"),
			UpdatedAt:     now,
			EstimatedTime: models.IntPtr(480),
			ActualTime:    models.IntPtr(240),
			Tags:          []string{"设计", "UI"},
			CreatedBy:     "user-1",
			AssignedTo:    []string{"user-2"},
			TeamID:        "team-1",
			Visibility:    models.VisibilityPublic,
			Watchers:      []string{"user-1", "user-2"},
			Attachments:   []models.Attachment{},
			Comments:      []models.Comment{},
		},
		{
			ID:            "task-2",
			Title:         "实现后端API",
			Description:   "开发RESTful API接口",
			Status:        models.StatusTodo,
			Priority:      models.PriorityMedium,
			DueDate:       &fortnight,
			CreatedAt:     day("2024-01-02"),
			UpdatedAt:     now,
			EstimatedTime: models.IntPtr(960),
			Tags:          []string{"后端", "API"},
			CreatedBy:     "user-1",
			AssignedTo:    []string{"user-3"},
			TeamID:        "team-1",
			Visibility:    models.VisibilityPublic,
			Watchers:      []string{"user-1", "user-3"},
			Attachments:   []models.Attachment{},
			Comments:      []models.Comment{},
		},
	}
}
