package preview

import (
	"webdojo/internal/catalog"
	"webdojo/internal/grading"
	"webdojo/internal/progress"
)

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type cardView struct {
	ID         int                `json:"id"`
	Title      string             `json:"title"`
	Difficulty catalog.Difficulty `json:"difficulty"`
	Languages  []catalog.Language `json:"languages"`
	Points     int                `json:"points"`
	Status     progress.Status    `json:"status"`
}

type challengeView struct {
	ID          int                `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Difficulty  catalog.Difficulty `json:"difficulty"`
	Languages   []catalog.Language `json:"languages"`
	Points      int                `json:"points"`
	Skills      []string           `json:"skills"`
	TheoryHTML  string             `json:"theory_html"`
	Example     string             `json:"example"`
	// Solution is only revealed once the challenge is completed.
	Solution string          `json:"solution,omitempty"`
	Status   progress.Status `json:"status"`
}

type progressView struct {
	Progress progress.Progress `json:"progress"`
	Stats    progress.Stats    `json:"stats"`
}

type runView struct {
	PreviewURL string   `json:"preview_url"`
	Lines      []string `json:"lines,omitempty"`
	Error      string   `json:"error,omitempty"`
	Silent     bool     `json:"silent,omitempty"`
	ElapsedMS  int64    `json:"elapsed_ms"`
}

type submitView struct {
	ChallengeID      int                   `json:"challenge_id"`
	AlreadyCompleted bool                  `json:"already_completed"`
	PointsAwarded    int                   `json:"points_awarded"`
	NewAchievements  []string              `json:"new_achievements,omitempty"`
	NextChallengeID  int                   `json:"next_challenge_id,omitempty"`
	Progress         progress.Progress     `json:"progress"`
	Checks           []grading.CheckResult `json:"checks"`
}
