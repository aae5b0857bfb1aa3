package health

import (
	"context"
	"time"

	"github.com/park285/armourmail-go/internal/config"
	"github.com/park285/armourmail-go/internal/mail"
)

var startTime = time.Now()

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
	MailStore  map[string]any       `json:"mail_store"`
}

// Collect 는 헬스 상태를 수집한다.
func Collect(ctx context.Context, cfg *config.Config, store *mail.Store, deepChecks bool) Response {
	components := make(map[string]Component)

	components["app"] = buildAppStatus()

	mailStoreStatus := buildMailStoreStatus(ctx, cfg, store, deepChecks)
	components["mail_store"] = mailStoreStatus

	components["detector"] = buildDetectorStatus(cfg)

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:     overall,
		Components: components,
		MailStore:  mailStoreStatus.Detail,
	}
}

func buildAppStatus() Component {
	uptimeSeconds := int(time.Since(startTime).Seconds())
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": uptimeSeconds,
		},
	}
}

func buildDetectorStatus(cfg *config.Config) Component {
	sensitivity := ""
	threshold := 0
	checkBase64 := false
	checkHomoglyphs := false

	if cfg != nil {
		sensitivity = cfg.Detector.Sensitivity
		threshold = cfg.Detector.QuarantineThreshold
		checkBase64 = cfg.Detector.CheckBase64
		checkHomoglyphs = cfg.Detector.CheckHomoglyphs
	}
	status := "ok"
	if sensitivity == "" {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"sensitivity":          sensitivity,
			"quarantine_threshold": threshold,
			"check_base64":         checkBase64,
			"check_homoglyphs":     checkHomoglyphs,
		},
	}
}

func buildMailStoreStatus(ctx context.Context, cfg *config.Config, store *mail.Store, deepChecks bool) Component {
	reachability := false
	backend := "memory"
	storeEnabled := false
	ttlHours := 0
	emailCount := 0
	emailCountErr := ""

	if cfg != nil {
		storeEnabled = cfg.MailStore.Enabled
		ttlHours = cfg.MailStore.TTLHours
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if store != nil {
		backend = store.Backend()
	}
	if store != nil && deepChecks {
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := store.Ping(checkCtx); err != nil {
			emailCountErr = err.Error()
		} else {
			reachability = true
			count, err := store.Count(checkCtx)
			if err != nil {
				emailCountErr = err.Error()
			} else {
				emailCount = count
			}
		}
	}

	status := "ok"
	if storeEnabled && deepChecks && !reachability {
		status = "degraded"
	}

	detail := map[string]any{
		"store_enabled":   storeEnabled,
		"store_connected": reachability,
		"backend":         backend,
		"email_count":     emailCount,
		"ttl_hours":       ttlHours,
		"deep_checked":    deepChecks,
	}
	if emailCountErr != "" {
		detail["email_count_error"] = emailCountErr
	}

	return Component{
		Status: status,
		Detail: detail,
	}
}
