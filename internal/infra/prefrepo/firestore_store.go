package prefrepo

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

const preferencesCollection = "userPreferences"

// FirestoreStore keeps one document per user in userPreferences/{uid}.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore constructs the store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

type preferencesDoc struct {
	Gender    string    `firestore:"gender"`
	Style     string    `firestore:"style"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Get implements outfit.PreferenceStore. A missing document means no preferences.
func (s *FirestoreStore) Get(ctx context.Context, userID string) (outfit.Preferences, bool, error) {
	snap, err := s.client.Collection(preferencesCollection).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return outfit.Preferences{}, false, nil
	}
	if err != nil {
		return outfit.Preferences{}, false, err
	}
	var doc preferencesDoc
	if err := snap.DataTo(&doc); err != nil {
		return outfit.Preferences{}, false, err
	}
	return outfit.Preferences{
		Gender:    outfit.Gender(doc.Gender),
		Style:     doc.Style,
		UpdatedAt: doc.UpdatedAt,
	}, true, nil
}

// Put overwrites the user's document.
func (s *FirestoreStore) Put(ctx context.Context, userID string, prefs outfit.Preferences) error {
	_, err := s.client.Collection(preferencesCollection).Doc(userID).Set(ctx, preferencesDoc{
		Gender:    string(prefs.Gender),
		Style:     prefs.Style,
		UpdatedAt: prefs.UpdatedAt,
	})
	return err
}

var _ outfit.PreferenceStore = (*FirestoreStore)(nil)
