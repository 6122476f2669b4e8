package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ndenisov/showcase/internal/common"
	"github.com/ndenisov/showcase/internal/logging"
	"github.com/ndenisov/showcase/internal/server/entity"
	"github.com/ndenisov/showcase/internal/server/mail"
)

// Contacts handles contact and resume submissions, admin replies, and the
// notification mail sent for new job applications.
type Contacts struct {
	repo       *entity.Repository
	mailer     mail.Mailer
	adminEmail string
	log        logging.Logger
}

func NewContacts(repo *entity.Repository, mailer mail.Mailer, adminEmail string, log logging.Logger) *Contacts {
	return &Contacts{repo: repo, mailer: mailer, adminEmail: adminEmail, log: log}
}

// Repo exposes the underlying submission repository.
func (s *Contacts) Repo() *entity.Repository { return s.repo }

// Submit validates and stores a submission. For resume submissions with an
// attachment, a notification email goes to the configured admin address;
// a delivery failure is logged and does not roll back the stored record.
func (s *Contacts) Submit(ctx context.Context, input entity.Document, att *entity.Attachment) (entity.Document, error) {
	doc, err := s.repo.Create(ctx, input, att)
	if err != nil {
		return nil, err
	}

	if doc.String("type") == "resume" && doc["resume"] != nil {
		msg := mail.Message{
			To:      s.adminEmail,
			Subject: "New Job Application: " + doc.String("subject"),
			HTML: fmt.Sprintf(
				"<h2>New Resume Submission</h2><p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p>",
				doc.String("name"), doc.String("email")),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Warn(ctx, "failed to send resume notification", "submission", doc.String("id"), "error", err.Error())
		}
	}

	return doc, nil
}

// Submissions returns every stored submission, newest first.
func (s *Contacts) Submissions(ctx context.Context) ([]entity.Document, error) {
	page, err := s.repo.List(ctx, entity.ListOptions{})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Reply appends an admin answer to a submission and marks it replied.
func (s *Contacts) Reply(ctx context.Context, id, message, repliedBy string) (entity.Document, error) {
	if message == "" {
		return nil, common.NewValidationError("message is required")
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	replies, _ := existing["replies"].([]any)
	replies = append(replies, map[string]any{
		"message":   message,
		"repliedBy": repliedBy,
		"repliedAt": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return s.repo.Update(ctx, id, entity.Document{
		"replies": replies,
		"status":  "replied",
	}, nil)
}
