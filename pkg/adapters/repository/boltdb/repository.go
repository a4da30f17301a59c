// Package boltdb stores links in an embedded bbolt file.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/murat/gimly/pkg/core/domain"
	"github.com/murat/gimly/pkg/ports"
	bolt "go.etcd.io/bbolt"
)

var (
	linksBucket = []byte("links") // short id -> JSON link
	orderBucket = []byte("order") // big endian sequence -> short id
)

type BoltRepository struct {
	db *bolt.DB
}

func NewBoltRepository(path string) (*BoltRepository, error) {
	if path == "" {
		return nil, errors.New("bolt: empty database path")
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(linksBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(orderBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltRepository{db: db}, nil
}

func (r *BoltRepository) Create(ctx context.Context, link *domain.Link) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		links := tx.Bucket(linksBucket)
		if links.Get([]byte(link.ShortID)) != nil {
			return domain.ErrShortIDTaken
		}

		order := tx.Bucket(orderBucket)
		seq, err := order.NextSequence()
		if err != nil {
			return err
		}

		stored := *link
		stored.ID = int64(seq)
		encoded, err := json.Marshal(stored)
		if err != nil {
			return err
		}

		if err := links.Put([]byte(link.ShortID), encoded); err != nil {
			return err
		}
		if err := order.Put(itob(seq), []byte(link.ShortID)); err != nil {
			return err
		}

		link.ID = stored.ID
		return nil
	})
}

func (r *BoltRepository) GetByShortID(ctx context.Context, code string) (*domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var link domain.Link
	err := r.db.View(func(tx *bolt.Tx) error {
		// View doesn't fail on a missing key, so check for nil ourselves
		v := tx.Bucket(linksBucket).Get([]byte(code))
		if v == nil {
			return domain.ErrNotFound
		}
		return json.Unmarshal(v, &link)
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *BoltRepository) List(ctx context.Context) ([]domain.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	links := []domain.Link{}
	err := r.db.View(func(tx *bolt.Tx) error {
		byCode := tx.Bucket(linksBucket)
		c := tx.Bucket(orderBucket).Cursor()
		for k, code := c.First(); k != nil; k, code = c.Next() {
			v := byCode.Get(code)
			if v == nil {
				continue
			}
			var l domain.Link
			if err := json.Unmarshal(v, &l); err != nil {
				return err
			}
			links = append(links, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// IncrementClicks runs a read-modify-write inside one write transaction;
// bbolt allows a single writer at a time, so increments never interleave.
func (r *BoltRepository) IncrementClicks(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(linksBucket)
		v := b.Get([]byte(code))
		if v == nil {
			return domain.ErrNotFound
		}

		var l domain.Link
		if err := json.Unmarshal(v, &l); err != nil {
			return err
		}
		l.ClickCount++

		encoded, err := json.Marshal(l)
		if err != nil {
			return err
		}
		return b.Put([]byte(code), encoded)
	})
}

func (r *BoltRepository) Ping(ctx context.Context) error {
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(linksBucket) == nil {
			return errors.New("bolt: links bucket missing")
		}
		return nil
	})
}

func (r *BoltRepository) Close() error {
	return r.db.Close()
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Ensure interface compliance
var _ ports.LinkRepository = (*BoltRepository)(nil)
