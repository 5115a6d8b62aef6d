package coach

import "github.com/abhisek/questmap/internal/llm"

// RoadmapSchema is shared by the career and syllabus flows.
var RoadmapSchema = &llm.Schema{
	Name:        "career-roadmap",
	Description: "A markdown learning roadmap split into phases with skills and milestones",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"roadmap": map[string]any{
				"type":        "string",
				"description": "The roadmap in markdown using # ## ### headers and - list items",
			},
			"estimatedDuration": map[string]any{
				"type":        "string",
				"description": "Estimated time to complete, e.g. \"6 months\"",
			},
			"difficultyLevel": map[string]any{
				"type":        "string",
				"description": "Overall difficulty: Beginner, Intermediate or Advanced",
			},
		},
		"required":             []any{"roadmap", "estimatedDuration", "difficultyLevel"},
		"additionalProperties": false,
	},
}

// MentorSchema defines the mentor reply.
var MentorSchema = &llm.Schema{
	Name:        "mentor-guidance",
	Description: "Personalized guidance, next steps and motivation for a learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"guidance": map[string]any{
				"type":        "string",
				"description": "Personalized advice based on progress and challenges",
			},
			"nextSteps": map[string]any{
				"type":        "string",
				"description": "3-5 specific actionable steps",
			},
			"motivation": map[string]any{
				"type":        "string",
				"description": "A short encouraging message",
			},
		},
		"required":             []any{"guidance", "nextSteps", "motivation"},
		"additionalProperties": false,
	},
}

var resourceItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"type":          map[string]any{"type": "string", "description": "Official, Video, Course, Interactive, Article or Certification"},
		"title":         map[string]any{"type": "string"},
		"url":           map[string]any{"type": "string"},
		"description":   map[string]any{"type": "string"},
		"difficulty":    map[string]any{"type": "string", "description": "Beginner, Intermediate or Advanced"},
		"estimatedTime": map[string]any{"type": "string"},
		"price":         map[string]any{"type": "string", "description": "e.g. Free, $49, Free with subscription"},
	},
	"required":             []any{"type", "title", "url", "description", "difficulty", "estimatedTime", "price"},
	"additionalProperties": false,
}

func resourceList(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       resourceItem,
		"description": desc,
	}
}

// ResourcesSchema defines curated learning material for a topic.
var ResourcesSchema = &llm.Schema{
	Name:        "learning-resources",
	Description: "Overview, learning path and curated resources for a topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topicOverview":      map[string]any{"type": "string", "description": "2-3 paragraph overview"},
			"learningPath":       map[string]any{"type": "string", "description": "Suggested order of study"},
			"freeResources":      resourceList("5-7 free resources"),
			"premiumResources":   resourceList("5-7 paid resources"),
			"practiceProjects":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "3-5 hands-on projects"},
			"certifications":     resourceList("2-4 relevant certifications"),
			"communityResources": resourceList("3-5 communities"),
		},
		"required": []any{
			"topicOverview", "learningPath", "freeResources", "premiumResources",
			"practiceProjects", "certifications", "communityResources",
		},
		"additionalProperties": false,
	},
}
