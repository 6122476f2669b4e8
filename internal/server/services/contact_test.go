package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndenisov/showcase/internal/common"
	"github.com/ndenisov/showcase/internal/server/blobstore"
	"github.com/ndenisov/showcase/internal/server/docstore"
	"github.com/ndenisov/showcase/internal/server/entity"
	"github.com/ndenisov/showcase/internal/server/mail"
)

type fakeMailer struct {
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestContacts(mailer mail.Mailer) *Contacts {
	repo := entity.NewRepository(entity.Contacts(), docstore.NewMemStore(), blobstore.NewMemStore(), testLogger())
	return NewContacts(repo, mailer, "admin@example.com", testLogger())
}

func contactInput() entity.Document {
	return entity.Document{
		"name":    "Jane",
		"email":   "jane@example.com",
		"subject": "Hello",
		"message": "Hi there",
	}
}

func TestContacts_Submit(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	contacts := newTestContacts(mailer)

	doc, err := contacts.Submit(ctx, contactInput(), nil)
	require.NoError(t, err)

	assert.Equal(t, "contact", doc.String("type"))
	assert.Equal(t, "pending", doc.String("status"))
	assert.Empty(t, mailer.sent, "plain contact submissions send no mail")
}

func TestContacts_SubmitResumeNotifiesAdmin(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	contacts := newTestContacts(mailer)

	input := contactInput()
	input["type"] = "resume"
	input["subject"] = "Backend Engineer"
	att := &entity.Attachment{FileName: "cv.pdf", ContentType: "application/pdf", Data: []byte("pdf")}

	_, err := contacts.Submit(ctx, input, att)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "admin@example.com", mailer.sent[0].To)
	assert.Equal(t, "New Job Application: Backend Engineer", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "jane@example.com")
}

func TestContacts_SubmitMailFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{err: errors.New("smtp down")}
	contacts := newTestContacts(mailer)

	input := contactInput()
	input["type"] = "resume"
	att := &entity.Attachment{FileName: "cv.pdf", ContentType: "application/pdf", Data: []byte("pdf")}

	doc, err := contacts.Submit(ctx, input, att)
	require.NoError(t, err)

	// The submission is stored despite the failed notification.
	stored, err := contacts.Repo().Get(ctx, doc.String("id"))
	require.NoError(t, err)
	assert.Equal(t, "resume", stored.String("type"))
}

func TestContacts_SubmitInvalidEmail(t *testing.T) {
	contacts := newTestContacts(&fakeMailer{})

	input := contactInput()
	input["email"] = "not-an-email"
	_, err := contacts.Submit(context.Background(), input, nil)
	assert.True(t, common.IsValidation(err))
}

func TestContacts_Reply(t *testing.T) {
	ctx := context.Background()
	contacts := newTestContacts(&fakeMailer{})

	doc, err := contacts.Submit(ctx, contactInput(), nil)
	require.NoError(t, err)

	updated, err := contacts.Reply(ctx, doc.String("id"), "Thanks for reaching out", "Admin")
	require.NoError(t, err)

	assert.Equal(t, "replied", updated.String("status"))
	replies, ok := updated["replies"].([]any)
	require.True(t, ok)
	require.Len(t, replies, 1)
	reply := replies[0].(map[string]any)
	assert.Equal(t, "Thanks for reaching out", reply["message"])
	assert.Equal(t, "Admin", reply["repliedBy"])
	assert.NotEmpty(t, reply["repliedAt"])

	second, err := contacts.Reply(ctx, doc.String("id"), "Following up", "Admin")
	require.NoError(t, err)
	assert.Len(t, second["replies"].([]any), 2)
}

func TestContacts_ReplyEmptyMessage(t *testing.T) {
	contacts := newTestContacts(&fakeMailer{})

	_, err := contacts.Reply(context.Background(), "any", "", "Admin")
	assert.True(t, common.IsValidation(err))
}

func TestContacts_ReplyNotFound(t *testing.T) {
	contacts := newTestContacts(&fakeMailer{})

	_, err := contacts.Reply(context.Background(), "missing", "hi", "Admin")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
