package newsletter

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"pressroom/models"
	"pressroom/queue"
)

const (
	excerptLength    = 200
	defaultBatchSize = 200
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Notifier sends the newsletter when a post is published. Subscribers are
// fetched in batches and each send failure is isolated: logged and skipped,
// never aborting the rest of the sweep.
type Notifier struct {
	db        *gorm.DB
	mailer    Mailer
	baseURL   string
	batchSize int
}

func NewNotifier(db *gorm.DB, mailer Mailer, baseURL string) *Notifier {
	return &Notifier{
		db:        db,
		mailer:    mailer,
		baseURL:   strings.TrimRight(baseURL, "/"),
		batchSize: defaultBatchSize,
	}
}

// HandlePostPublished is the queued listener for the publish event. It works
// entirely from the event snapshot; the post is not re-read.
func (n *Notifier) HandlePostPublished(ev queue.PostPublished) error {
	subject := "New post: " + ev.Title
	body := n.renderBody(ev)

	sent := 0
	failed := 0
	offset := 0

	for {
		var batch []models.NewsletterSubscriber
		err := n.db.Where("active = ?", true).
			Order("id ASC").
			Limit(n.batchSize).
			Offset(offset).
			Find(&batch).Error
		if err != nil {
			return fmt.Errorf("fetching subscribers: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, subscriber := range batch {
			message := body + n.renderFooter(subscriber.UnsubscribeToken)
			if err := n.mailer.Send(subscriber.Email, subject, message); err != nil {
				failed++
				log.Printf("newsletter: failed to send to %s for post %d: %v",
					subscriber.Email, ev.PostID, err)
				continue
			}
			sent++
		}

		offset += len(batch)
	}

	log.Printf("newsletter: post %d (%s) dispatched to %d subscribers, %d failed",
		ev.PostID, ev.Title, sent, failed)
	return nil
}

func (n *Notifier) renderBody(ev queue.PostPublished) string {
	publishedAt := time.Now()
	if ev.PublishedAt != nil {
		publishedAt = *ev.PublishedAt
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h1>%s</h1>\n", ev.Title))
	b.WriteString(fmt.Sprintf("<p>%s</p>\n", Excerpt(ev.Content, excerptLength)))
	b.WriteString(fmt.Sprintf("<p><a href=\"%s/post/%s\">Read more</a></p>\n", n.baseURL, ev.Slug))
	b.WriteString(fmt.Sprintf("<p>Published on %s", publishedAt.Format("02/01/2006")))
	if ev.CategoryName != "" {
		b.WriteString(fmt.Sprintf(" in %s", ev.CategoryName))
	}
	b.WriteString("</p>\n")

	return b.String()
}

func (n *Notifier) renderFooter(token string) string {
	return fmt.Sprintf("<p><a href=\"%s/newsletter/unsubscribe/%s\">Unsubscribe</a></p>\n",
		n.baseURL, token)
}

// Excerpt strips HTML tags from content and truncates to limit characters,
// appending an ellipsis when anything was cut off.
func Excerpt(content string, limit int) string {
	plain := tagRe.ReplaceAllString(content, "")
	plain = strings.TrimSpace(plain)

	runes := []rune(plain)
	if len(runes) <= limit {
		return plain
	}
	return string(runes[:limit]) + "..."
}
