// Package delivery gửi digest hiệu suất guide sau mỗi lượt prewarm snapshot.
package delivery

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"meta_tourism/internal/delivery/channels"
	"meta_tourism/internal/logger"
)

// DigestEntry một dòng trong digest: kết quả của một guide.
type DigestEntry struct {
	GuideName string
	BranchID  primitive.ObjectID
	Score     float64
	Tier      string
}

// DigestConfig cấu hình các kênh gửi digest.
type DigestConfig struct {
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmails   []string
	WebhookURL string
}

// Sender gửi digest qua các kênh đã cấu hình. Kênh lỗi chỉ được log,
// không chặn kênh còn lại.
type Sender struct {
	cfg DigestConfig
}

// NewSender tạo mới Sender.
func NewSender(cfg DigestConfig) *Sender {
	return &Sender{cfg: cfg}
}

// topBottomPerBranch chọn guide điểm cao nhất và thấp nhất của từng chi nhánh.
func topBottomPerBranch(entries []DigestEntry) map[primitive.ObjectID][2]DigestEntry {
	byBranch := make(map[primitive.ObjectID][]DigestEntry)
	for _, e := range entries {
		byBranch[e.BranchID] = append(byBranch[e.BranchID], e)
	}
	result := make(map[primitive.ObjectID][2]DigestEntry)
	for branchID, list := range byBranch {
		sort.Slice(list, func(i, j int) bool { return list[i].Score > list[j].Score })
		result[branchID] = [2]DigestEntry{list[0], list[len(list)-1]}
	}
	return result
}

// BuildDigest dựng nội dung digest dạng text từ kết quả một lượt prewarm.
func BuildDigest(runID string, entries []DigestEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Digest hiệu suất guide - lượt prewarm %s\n\n", runID)
	for branchID, pair := range topBottomPerBranch(entries) {
		fmt.Fprintf(&b, "Chi nhánh %s:\n", branchID.Hex())
		fmt.Fprintf(&b, "  Cao nhất:  %s - score %.1f (%s)\n", pair[0].GuideName, pair[0].Score, pair[0].Tier)
		fmt.Fprintf(&b, "  Thấp nhất: %s - score %.1f (%s)\n\n", pair[1].GuideName, pair[1].Score, pair[1].Tier)
	}
	return b.String()
}

// Send gửi digest qua email và webhook (kênh nào được cấu hình thì gửi).
func (s *Sender) Send(ctx context.Context, runID string, entries []DigestEntry) {
	if len(entries) == 0 {
		return
	}
	log := logger.GetAppLogger()
	content := BuildDigest(runID, entries)
	subject := "Digest hiệu suất guide - " + runID

	if s.cfg.SMTPHost != "" && len(s.cfg.ToEmails) > 0 {
		err := channels.SendEmail(channels.EmailConfig{
			SMTPHost:  s.cfg.SMTPHost,
			SMTPPort:  s.cfg.SMTPPort,
			SMTPUser:  s.cfg.SMTPUser,
			SMTPPass:  s.cfg.SMTPPass,
			FromEmail: s.cfg.FromEmail,
		}, s.cfg.ToEmails, subject, content)
		if err != nil {
			log.WithError(err).Warn("Gửi email digest thất bại")
		}
	}
	if s.cfg.WebhookURL != "" {
		if err := channels.SendWebhook(s.cfg.WebhookURL, runID, content); err != nil {
			log.WithError(err).Warn("Gửi webhook digest thất bại")
		}
	}
}
