package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExportKind classifies exports for quota accounting.
type ExportKind string

const (
	ExportImage ExportKind = "image"
	ExportVideo ExportKind = "video"
)

// User is the caller identity the core needs: an id and whether the account
// tier bypasses export quotas. Session handling lives outside this service.
type User struct {
	ID         uuid.UUID
	Privileged bool
}

// QuotaCounts are one user's export counts for one UTC day.
type QuotaCounts struct {
	Images int `json:"images"`
	Videos int `json:"videos"`
}

// ForKind returns the count for the given export kind.
func (q QuotaCounts) ForKind(kind ExportKind) int {
	if kind == ExportVideo {
		return q.Videos
	}
	return q.Images
}

// ExportLimits are the configured per-day caps. Zero means unlimited.
type ExportLimits struct {
	ImageLimit int `json:"image_limit"`
	VideoLimit int `json:"video_limit"`
}

// ForKind returns the limit for the given export kind.
func (l ExportLimits) ForKind(kind ExportKind) int {
	if kind == ExportVideo {
		return l.VideoLimit
	}
	return l.ImageLimit
}

// QuotaDay truncates t to the UTC calendar day used as the quota key.
func QuotaDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
