package newsletter

import (
	"crypto/rand"
	"encoding/base64"

	"gorm.io/gorm"

	"pressroom/models"
)

// Subscribers manages the subscription list. The unsubscribe token is
// generated once and stays stable for the lifetime of the subscription,
// including across unsubscribe/resubscribe cycles.
type Subscribers struct {
	db *gorm.DB
}

func NewSubscribers(db *gorm.DB) *Subscribers {
	return &Subscribers{db: db}
}

// Subscribe adds an email to the list, or reactivates it if it was already
// subscribed before.
func (s *Subscribers) Subscribe(email string) (*models.NewsletterSubscriber, error) {
	var existing models.NewsletterSubscriber
	err := s.db.Where("email = ?", email).First(&existing).Error

	if err == nil {
		if !existing.Active {
			existing.Active = true
			if err := s.db.Save(&existing).Error; err != nil {
				return nil, err
			}
		}
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	subscriber := models.NewsletterSubscriber{
		Email:            email,
		UnsubscribeToken: token,
		Active:           true,
	}
	if err := s.db.Create(&subscriber).Error; err != nil {
		return nil, err
	}

	return &subscriber, nil
}

// Unsubscribe deactivates the subscription matching the token.
func (s *Subscribers) Unsubscribe(token string) error {
	var subscriber models.NewsletterSubscriber
	if err := s.db.Where("unsubscribe_token = ?", token).First(&subscriber).Error; err != nil {
		return err
	}

	subscriber.Active = false
	return s.db.Save(&subscriber).Error
}

// List returns every subscriber, active or not, for the admin page.
func (s *Subscribers) List() ([]models.NewsletterSubscriber, error) {
	var subscribers []models.NewsletterSubscriber
	err := s.db.Order("id ASC").Find(&subscribers).Error
	return subscribers, err
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
