// Package ws, kullanıcılara gerçek zamanlı bildirim gönderen WebSocket katmanı.
//
// Hub kullanıcı başına bağlantıları tutar (bir kullanıcının birden fazla sekmesi
// olabilir). Servisler Hub'a doğrudan değil Notifier interface'i üzerinden erişir.
package ws

// Event, WebSocket üzerinden iletilen mesaj.
// Seq her giden event için artar; istemci kaçırdığı event'leri fark edebilir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// İstemci → sunucu.
const (
	OpHeartbeat = "heartbeat"
)

// Sunucu → istemci.
const (
	OpReady                = "ready"
	OpHeartbeatAck         = "heartbeat_ack"
	OpTaskAssigned         = "task_assigned"
	OpAppointmentRequested = "appointment_requested"
	OpAppointmentUpdated   = "appointment_updated"
	OpNewsPublished        = "news_published"
	OpReportReviewed       = "report_reviewed"
	OpReportSubmitted      = "report_submitted"
)

// ReadyData, bağlantı kurulunca gönderilen ilk event'in payload'ı.
type ReadyData struct {
	UserID string `json:"user_id"`
}
