package buildinglink

import (
	"bytes"
	"encoding/gob"
	"net/url"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
)

var errPageNotCached = badger.ErrKeyNotFound

type cachedListing struct {
	Documents []LibraryDocument
	ExpiresAt int64
}

// pageCache stores scraped library listings in badger, keyed by the
// normalized page URL. a nil db disables caching entirely.
type pageCache struct {
	db      *badger.DB
	baseUrl *url.URL
}

func (c pageCache) key(endpoint string) (string, error) {
	full, err := c.baseUrl.Parse(endpoint)
	if err != nil {
		return "", err
	}
	normalized := purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	return normalized, nil
}

func (c pageCache) get(endpoint string) (cachedListing, error) {
	if c.db == nil {
		return cachedListing{}, errPageNotCached
	}
	key, err := c.key(endpoint)
	if err != nil {
		return cachedListing{}, err
	}

	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	item, err := tx.Get([]byte(key))
	if err != nil {
		return cachedListing{}, err
	}
	serialized, err := item.ValueCopy(nil)
	if err != nil {
		return cachedListing{}, err
	}

	var cached cachedListing
	err = gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	if err != nil {
		return cachedListing{}, err
	}

	if time.Now().Unix() >= cached.ExpiresAt {
		expiry := c.db.NewTransaction(true)
		defer expiry.Commit()
		err = expiry.Delete([]byte(key))
		if err != nil {
			return cachedListing{}, errPageNotCached
		}
		return cachedListing{}, errPageNotCached
	}

	return cached, nil
}

func (c pageCache) set(endpoint string, listing cachedListing) error {
	if c.db == nil {
		return nil
	}
	key, err := c.key(endpoint)
	if err != nil {
		return err
	}

	serialized := bytes.NewBuffer(nil)
	err = gob.NewEncoder(serialized).Encode(listing)
	if err != nil {
		return err
	}

	tx := c.db.NewTransaction(true)
	defer tx.Commit()
	return tx.Set([]byte(key), serialized.Bytes())
}
