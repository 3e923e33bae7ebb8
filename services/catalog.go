// services/catalog.go - built-in achievement catalog
package services

import "edvantage/models"

// DefaultCatalog returns the stock Edvantage achievement set. Callers may
// supply their own catalog to StartSession instead; ids are stable and are
// the only thing the engine keys on.
func DefaultCatalog() []models.Achievement {
	return []models.Achievement{
		{
			ID:          "first-task",
			Title:       "Getting Started",
			Description: "Complete your first task",
			Category:    "Tasks",
			Icon:        "check-circle",
			Points:      10,
			MaxProgress: 1,
		},
		{
			ID:          "task-streak-7",
			Title:       "Week Warrior",
			Description: "Complete tasks 7 days in a row",
			Category:    "Tasks",
			Icon:        "flame",
			Points:      50,
			MaxProgress: 7,
		},
		{
			ID:          "task-master-50",
			Title:       "Task Master",
			Description: "Complete 50 tasks",
			Category:    "Tasks",
			Icon:        "trophy",
			Points:      100,
			MaxProgress: 50,
		},
		{
			ID:          "planner-5",
			Title:       "Forward Thinker",
			Description: "Schedule 5 events in your calendar",
			Category:    "Calendar",
			Icon:        "calendar",
			Points:      25,
			MaxProgress: 5,
		},
		{
			ID:          "group-joiner",
			Title:       "Better Together",
			Description: "Join your first study group",
			Category:    "Groups",
			Icon:        "users",
			Points:      20,
			MaxProgress: 1,
		},
		{
			ID:          "group-regular-10",
			Title:       "Study Buddy",
			Description: "Attend 10 study group sessions",
			Category:    "Groups",
			Icon:        "graduation-cap",
			Points:      60,
			MaxProgress: 10,
		},
		{
			ID:          "resource-hunter-10",
			Title:       "Resource Hunter",
			Description: "Download 10 study resources",
			Category:    "Resources",
			Icon:        "download",
			Points:      30,
			MaxProgress: 10,
		},
		{
			ID:          "curator-3",
			Title:       "Curator",
			Description: "Share 3 resources with your groups",
			Category:    "Resources",
			Icon:        "share",
			Points:      40,
			MaxProgress: 3,
		},
		{
			ID:          "night-owl",
			Title:       "Night Owl",
			Description: "Finish a task after midnight",
			Category:    "Special",
			Icon:        "moon",
			Points:      15,
			MaxProgress: 1,
		},
		{
			ID:          "early-bird",
			Title:       "Early Bird",
			Description: "Finish a task before 7am",
			Category:    "Special",
			Icon:        "sunrise",
			Points:      15,
			MaxProgress: 1,
		},
	}
}
