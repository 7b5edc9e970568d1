// Package firestore stores each session as a single document, for
// deployments that want a managed backend instead of the local filesystem.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mobilindo/lapor-assistant/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore-backed session store in the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

type sessionDoc struct {
	ID       string    `firestore:"id"`
	Title    string    `firestore:"title"`
	Messages []turnDoc `firestore:"messages"`
}

type turnDoc struct {
	Role    string `firestore:"role"`
	Content string `firestore:"content"`
}

func toDoc(sess *domain.Session) sessionDoc {
	msgs := make([]turnDoc, 0, len(sess.Messages))
	for _, t := range sess.Messages {
		msgs = append(msgs, turnDoc{Role: string(t.Role), Content: t.Content})
	}
	return sessionDoc{ID: string(sess.ID), Title: sess.Title, Messages: msgs}
}

func fromDoc(doc sessionDoc) *domain.Session {
	msgs := make([]domain.Turn, 0, len(doc.Messages))
	for _, t := range doc.Messages {
		msgs = append(msgs, domain.Turn{Role: domain.Role(t.Role), Content: t.Content})
	}
	return &domain.Session{ID: domain.SessionID(doc.ID), Title: doc.Title, Messages: msgs}
}

func (s *Store) Create(seedMessage string) *domain.Session {
	return domain.NewSession(seedMessage)
}

func (s *Store) Load(id domain.SessionID) (*domain.Session, error) {
	ctx := context.Background()

	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("firestore Load: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSessionCorrupt, id, err)
	}

	sess := fromDoc(doc)
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSessionCorrupt, id, err)
	}

	return sess, nil
}

// Save overwrites the whole document; document writes are atomic on the
// Firestore side.
func (s *Store) Save(session *domain.Session) error {
	ctx := context.Background()

	if _, err := s.sessionDoc(session.ID).Set(ctx, toDoc(session)); err != nil {
		return fmt.Errorf("firestore Save: %w", err)
	}
	return nil
}

func (s *Store) List() ([]domain.SessionSummary, error) {
	ctx := context.Background()

	iter := s.sessionsCol().
		OrderBy(firestore.DocumentID, firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var summaries []domain.SessionSummary
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore List: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil || doc.ID == "" {
			// Unparsable documents are skipped, same as the file store.
			continue
		}
		summaries = append(summaries, domain.SessionSummary{
			ID:    domain.SessionID(doc.ID),
			Title: doc.Title,
		})
	}

	if summaries == nil {
		summaries = []domain.SessionSummary{}
	}
	return summaries, nil
}
