package contact

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"backend-safeher/internal/alert"
	"backend-safeher/internal/db"

	"github.com/google/uuid"
)

var (
	ErrInvalidPhone = errors.New("phone must be exactly 10 digits")
	ErrInvalidEmail = errors.New("invalid email address")

	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	nonDigits     = regexp.MustCompile(`\D`)
	errNameAndPhoneRequired = errors.New("name and phone required")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Create validates and stores a new trusted contact. Validation happens
// before any write: a rejected contact leaves no trace.
func (s *Service) Create(ctx context.Context, input Contact) (Contact, error) {
	normalized, err := validate(input)
	if err != nil {
		return Contact{}, err
	}

	normalized.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO contacts (id, user_id, name, relation, phone, email)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, normalized.ID, normalized.UserID, normalized.Name, normalized.Relation, normalized.Phone, normalized.Email)
	if err := row.Scan(&normalized.CreatedAt, &normalized.UpdatedAt); err != nil {
		return Contact{}, err
	}
	return normalized, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, input Contact) (Contact, error) {
	input.UserID = userID
	normalized, err := validate(input)
	if err != nil {
		return Contact{}, err
	}

	normalized.ID = id
	row := s.db.QueryRow(ctx, `
		UPDATE contacts
		SET name=$3, relation=$4, phone=$5, email=$6, updated_at=now()
		WHERE id=$1 AND user_id=$2
		RETURNING created_at, updated_at
	`, id, userID, normalized.Name, normalized.Relation, normalized.Phone, normalized.Email)
	if err := row.Scan(&normalized.CreatedAt, &normalized.UpdatedAt); err != nil {
		return Contact{}, err
	}
	return normalized, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM contacts WHERE id=$1 AND user_id=$2`, id, userID)
	return err
}

func (s *Service) Get(ctx context.Context, userID, id string) (Contact, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, relation, phone, email, created_at, updated_at
		FROM contacts WHERE id=$1 AND user_id=$2
	`, id, userID)
	var c Contact
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Relation, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Contact{}, err
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Contact, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, relation, phone, email, created_at, updated_at
		FROM contacts WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Relation, &c.Phone, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// Recipients returns the user's contacts as a dispatch recipient set.
func (s *Service) Recipients(ctx context.Context, userID string) ([]alert.Recipient, error) {
	contacts, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipients := make([]alert.Recipient, 0, len(contacts))
	for _, c := range contacts {
		recipients = append(recipients, alert.Recipient{
			UserID: c.UserID,
			Name:   c.Name,
			Phone:  c.Phone,
			Email:  c.Email,
		})
	}
	return recipients, nil
}

func validate(input Contact) (Contact, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Relation = strings.TrimSpace(input.Relation)
	input.Phone = nonDigits.ReplaceAllString(input.Phone, "")
	input.Email = strings.TrimSpace(input.Email)

	if input.Name == "" || input.Phone == "" {
		return Contact{}, errNameAndPhoneRequired
	}
	if len(input.Phone) != 10 {
		return Contact{}, ErrInvalidPhone
	}
	if input.Email != "" && !emailPattern.MatchString(input.Email) {
		return Contact{}, ErrInvalidEmail
	}
	return input, nil
}
