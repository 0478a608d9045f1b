package outfitrepo

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

const (
	usersCollection   = "users"
	outfitsCollection = "outfits"
)

// FirestoreRepository stores outfits under users/{uid}/outfits.
type FirestoreRepository struct {
	client *firestore.Client
}

// NewFirestoreRepository constructs the repository.
func NewFirestoreRepository(client *firestore.Client) *FirestoreRepository {
	return &FirestoreRepository{client: client}
}

type outfitDoc struct {
	Number    int        `firestore:"number"`
	Text      string     `firestore:"text"`
	Items     []string   `firestore:"items"`
	Tip       string     `firestore:"tip,omitempty"`
	Weather   weatherDoc `firestore:"weather"`
	CreatedAt time.Time  `firestore:"createdAt"`
}

type weatherDoc struct {
	Temp        int    `firestore:"temp"`
	Description string `firestore:"description"`
}

func (r *FirestoreRepository) outfits(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(outfitsCollection)
}

// Create adds a document with a generated id.
func (r *FirestoreRepository) Create(ctx context.Context, userID string, o outfit.Outfit) (string, error) {
	ref := r.outfits(userID).NewDoc()
	if _, err := ref.Create(ctx, toDoc(o)); err != nil {
		return "", err
	}
	return ref.ID, nil
}

// Delete removes the document. Firestore treats deleting a missing document as success.
func (r *FirestoreRepository) Delete(ctx context.Context, userID, outfitID string) error {
	_, err := r.outfits(userID).Doc(outfitID).Delete(ctx)
	return err
}

// ListOrderedByNumber returns the user's outfits ascending by number.
func (r *FirestoreRepository) ListOrderedByNumber(ctx context.Context, userID string) ([]outfit.Outfit, error) {
	iter := r.outfits(userID).OrderBy("number", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	out := make([]outfit.Outfit, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var doc outfitDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		out = append(out, fromDoc(snap.Ref.ID, doc))
	}
	return out, nil
}

// MaxNumber reads the single highest numbered document.
func (r *FirestoreRepository) MaxNumber(ctx context.Context, userID string) (int, error) {
	docs, err := r.outfits(userID).OrderBy("number", firestore.Desc).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	var doc outfitDoc
	if err := docs[0].DataTo(&doc); err != nil {
		return 0, err
	}
	return doc.Number, nil
}

func toDoc(o outfit.Outfit) outfitDoc {
	return outfitDoc{
		Number:    o.Number,
		Text:      o.Text,
		Items:     copyItems(o.Items),
		Tip:       o.Tip,
		Weather:   weatherDoc{Temp: o.Weather.TemperatureC, Description: o.Weather.Description},
		CreatedAt: o.CreatedAt,
	}
}

func fromDoc(id string, doc outfitDoc) outfit.Outfit {
	return outfit.Outfit{
		ID:        id,
		Number:    doc.Number,
		Text:      doc.Text,
		Items:     copyItems(doc.Items),
		Tip:       doc.Tip,
		Weather:   outfit.WeatherStamp{TemperatureC: doc.Weather.Temp, Description: doc.Weather.Description},
		CreatedAt: doc.CreatedAt,
	}
}

var _ outfit.Repository = (*FirestoreRepository)(nil)
