package models

// CompanyDashboard, firma ana sayfası için toplu görünüm.
type CompanyDashboard struct {
	Projects             ProjectCounts        `json:"projects"`
	Tasks                TaskCounts           `json:"tasks"`
	MyOpenTasks          []Task               `json:"my_open_tasks"`
	UpcomingAppointments []AppointmentRequest `json:"upcoming_appointments"`
	TrainingProgress     int                  `json:"training_progress_percent"`
	LatestNews           []NewsArticle        `json:"latest_news"`
	LatestTopics         []ForumTopic         `json:"latest_topics"`
}

// ProjectCounts, durum bazlı proje sayıları.
type ProjectCounts struct {
	Total     int `json:"total"`
	Planned   int `json:"planned"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// TaskCounts, görev sayıları ve tamamlanma yüzdesi.
type TaskCounts struct {
	Total             int `json:"total"`
	Todo              int `json:"todo"`
	InProgress        int `json:"in_progress"`
	Done              int `json:"done"`
	CompletionPercent int `json:"completion_percent"`
}

// AdminStats, platform geneli sayılar.
type AdminStats struct {
	UsersByRole       map[PlatformRole]int  `json:"users_by_role"`
	CompaniesByStatus map[CompanyStatus]int `json:"companies_by_status"`
	OpenAppointments  int                   `json:"open_appointments"`
	UnhandledContacts int                   `json:"unhandled_contacts"`
	PublishedNews     int                   `json:"published_news"`
	ForumTopics       int                   `json:"forum_topics"`
}
