package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
)

// productDoc forma del documento de producto que mantiene el módulo de catálogo.
type productDoc struct {
	Name            string    `firestore:"name"`
	Type            string    `firestore:"type"`
	HasSerialNumber bool      `firestore:"hasSerialNumber"`
	MRP             float64   `firestore:"mrp"`
	DealerPrice     *float64  `firestore:"dealerPrice"`
	TaxApplicable   bool      `firestore:"taxApplicable"`
	UnitOfCount     string    `firestore:"unitOfCount"`
	CreatedAt       time.Time `firestore:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
}

func (d productDoc) toEntity(id string) *entity.Product {
	p := &entity.Product{
		ID:              id,
		Name:            strings.TrimSpace(d.Name),
		Type:            d.Type,
		HasSerialNumber: d.HasSerialNumber,
		MRP:             decimal.NewFromFloat(d.MRP),
		TaxApplicable:   d.TaxApplicable,
		UnitOfCount:     d.UnitOfCount,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.DealerPrice != nil {
		dp := decimal.NewFromFloat(*d.DealerPrice)
		p.DealerPrice = &dp
	}
	if p.UnitOfCount == "" {
		p.UnitOfCount = entity.UnitOfCountPiece
	}
	return p
}

// ProductRepo lectura del catálogo.
type ProductRepo struct {
	client     *firestore.Client
	collection string
}

// GetByID implementa repository.ProductRepository; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if r.client == nil {
		return nil, errors.New("firestore client is nil")
	}
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("leer producto %s: %w", id, err)
	}
	var d productDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decodificar producto %s: %w", id, err)
	}
	return d.toEntity(snap.Ref.ID), nil
}

// GetByIDs implementa repository.ProductRepository con una sola lectura por lotes.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Product, error) {
	if r.client == nil {
		return nil, errors.New("firestore client is nil")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	col := r.client.Collection(r.collection)
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			refs = append(refs, col.Doc(id))
		}
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("leer productos: %w", err)
	}
	out := make([]*entity.Product, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var d productDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decodificar producto %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.toEntity(snap.Ref.ID))
	}
	return out, nil
}

type locationDoc struct {
	Name      string    `firestore:"name"`
	Address   string    `firestore:"address"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func (d locationDoc) toEntity(id string) *entity.Location {
	return &entity.Location{ID: id, Name: strings.TrimSpace(d.Name), Address: d.Address, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

// LocationRepo lectura de sedes.
type LocationRepo struct {
	client     *firestore.Client
	collection string
}

// GetByID implementa repository.LocationRepository; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if r.client == nil {
		return nil, errors.New("firestore client is nil")
	}
	snap, err := r.client.Collection(r.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("leer sede %s: %w", id, err)
	}
	var d locationDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decodificar sede %s: %w", id, err)
	}
	return d.toEntity(snap.Ref.ID), nil
}

// List implementa repository.LocationRepository.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	if r.client == nil {
		return nil, errors.New("firestore client is nil")
	}
	it := r.client.Collection(r.collection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer it.Stop()
	var out []*entity.Location
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listar sedes: %w", err)
		}
		var d locationDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decodificar sede %s: %w", snap.Ref.ID, err)
		}
		out = append(out, d.toEntity(snap.Ref.ID))
	}
	return out, nil
}
