package mail

import (
	"time"

	"github.com/park285/armourmail-go/internal/detector"
)

// Status 는 메일 레코드의 처리 상태다.
type Status string

const (
	// StatusPending 는 스캔 전 상태다.
	StatusPending Status = "pending"
	// StatusSafe 는 통과 상태다.
	StatusSafe Status = "safe"
	// StatusSuspicious 는 의심 상태다.
	StatusSuspicious Status = "suspicious"
	// StatusQuarantined 는 격리 상태다.
	StatusQuarantined Status = "quarantined"
	// StatusApproved 는 격리 해제 승인 상태다.
	StatusApproved Status = "approved"
	// StatusRejected 는 격리 확정 상태다.
	StatusRejected Status = "rejected"
)

// ValidStatus 는 알려진 상태 값인지 확인한다.
func ValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusSafe, StatusSuspicious, StatusQuarantined, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ThreatLevel 는 점수에서 파생되는 위협 등급이다.
type ThreatLevel string

const (
	ThreatNone     ThreatLevel = "none"
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// ThreatLevelForScore 는 고정 임계값으로 위협 등급을 매긴다.
func ThreatLevelForScore(score int) ThreatLevel {
	switch {
	case score >= 85:
		return ThreatCritical
	case score >= 65:
		return ThreatHigh
	case score >= 40:
		return ThreatMedium
	case score >= 15:
		return ThreatLow
	default:
		return ThreatNone
	}
}

// StatusForThreat 는 위협 등급을 처리 상태로 바꾼다.
func StatusForThreat(level ThreatLevel) Status {
	switch level {
	case ThreatHigh, ThreatCritical:
		return StatusQuarantined
	case ThreatMedium:
		return StatusSuspicious
	default:
		return StatusSafe
	}
}

// ScanOutcome 는 탐지 결과와 위협 등급을 묶은 스캔 산출물이다.
type ScanOutcome struct {
	detector.ScanResult
	ThreatLevel ThreatLevel `json:"threat_level"`
	ScannedAt   time.Time   `json:"scanned_at"`
}

// Email 는 수신 메일 레코드다.
type Email struct {
	ID          string            `json:"id"`
	Sender      string            `json:"sender"`
	Recipient   string            `json:"recipient"`
	Subject     string            `json:"subject"`
	BodyPlain   string            `json:"body_plain"`
	BodyHTML    string            `json:"body_html,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Attachments []string          `json:"attachments,omitempty"`
	Status      Status            `json:"status"`
	RejectNote  string            `json:"reject_note,omitempty"`
	Scan        *ScanOutcome      `json:"scan,omitempty"`
	ReceivedAt  time.Time         `json:"received_at"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty"`
}

// Summary 는 목록 응답용 축약 레코드다.
type Summary struct {
	ID          string      `json:"id"`
	Sender      string      `json:"sender"`
	Recipient   string      `json:"recipient"`
	Subject     string      `json:"subject"`
	Status      Status      `json:"status"`
	ThreatLevel ThreatLevel `json:"threat_level"`
	RiskScore   int         `json:"risk_score"`
	ReceivedAt  time.Time   `json:"received_at"`
}

// Summarize 는 레코드를 목록 항목으로 축약한다.
func Summarize(email *Email) Summary {
	summary := Summary{
		ID:          email.ID,
		Sender:      email.Sender,
		Recipient:   email.Recipient,
		Subject:     email.Subject,
		Status:      email.Status,
		ThreatLevel: ThreatNone,
		ReceivedAt:  email.ReceivedAt,
	}
	if email.Scan != nil {
		summary.ThreatLevel = email.Scan.ThreatLevel
		summary.RiskScore = email.Scan.RiskScore
	}
	return summary
}

// Page 는 페이지네이션 응답이다.
type Page struct {
	Items      []Summary `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// NewPage 는 전체 목록에서 요청 페이지를 잘라낸다.
func NewPage(items []Summary, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
