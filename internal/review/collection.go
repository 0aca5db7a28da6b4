package review

import (
	"strconv"
	"time"
)

// Collection is a tenant's review list in display order: newest first,
// insertion order is reverse chronological. It is not safe for concurrent
// use; all mutations happen on the single session goroutine.
type Collection struct {
	reviews []Review
	now     func() time.Time
	lastID  int64
}

// NewCollection wraps an existing slice, typically loaded from storage.
func NewCollection(reviews []Review) *Collection {
	c := &Collection{reviews: reviews, now: time.Now}
	for _, r := range reviews {
		if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil && n > c.lastID {
			c.lastID = n
		}
	}
	return c
}

// nextID derives a fresh id from the clock. Millisecond timestamps sort
// newest-first; the bump keeps ids unique when two entries land in the same
// millisecond.
func (c *Collection) nextID() string {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return strconv.FormatInt(id, 10)
}

// Add validates and prepends a new manual review. Malformed input (empty
// author, empty text, rating outside 1-5) is rejected before construction;
// no partial review is created.
func (c *Collection) Add(text string, source Source, author string, rating int) (Review, error) {
	if err := validate(author, text, rating); err != nil {
		return Review{}, err
	}
	if !ValidSource(source) {
		source = SourceManual
	}
	r := Review{
		ID:     c.nextID(),
		Source: source,
		Author: author,
		Rating: rating,
		Text:   text,
		Date:   "Oggi",
		Status: StatusPending,
	}
	c.reviews = append([]Review{r}, c.reviews...)
	return r, nil
}

// AddImported stamps an externally sourced review (sync, parsed paste) with a
// fresh id and pending status and prepends it. The caller supplies source,
// author, rating, text and optionally date.
func (c *Collection) AddImported(r Review) (Review, error) {
	if err := validate(r.Author, r.Text, r.Rating); err != nil {
		return Review{}, err
	}
	r.ID = c.nextID()
	r.Status = StatusPending
	if r.Date == "" {
		r.Date = "Adesso"
	}
	if !ValidSource(r.Source) {
		r.Source = SourceManual
	}
	r.Reply = ""
	c.reviews = append([]Review{r}, c.reviews...)
	return r, nil
}

// Patch carries the fields of a partial update. Nil fields are left alone.
type Patch struct {
	Author *string
	Rating *int
	Text   *string
	Date   *string
	Source *Source
	Status *Status
	Reply  *string
}

// Update merges the patch into the review with the given id. An unknown id is
// a no-op, not an error; the operation is idempotent from the caller's view.
func (c *Collection) Update(id string, p Patch) bool {
	for i := range c.reviews {
		if c.reviews[i].ID != id {
			continue
		}
		r := &c.reviews[i]
		if p.Author != nil {
			r.Author = *p.Author
		}
		if p.Rating != nil && *p.Rating >= 1 && *p.Rating <= 5 {
			r.Rating = *p.Rating
		}
		if p.Text != nil {
			r.Text = *p.Text
		}
		if p.Date != nil {
			r.Date = *p.Date
		}
		if p.Source != nil && ValidSource(*p.Source) {
			r.Source = *p.Source
		}
		if p.Status != nil {
			r.Status = *p.Status
		}
		if p.Reply != nil {
			r.Reply = *p.Reply
		}
		return true
	}
	return false
}

// MarkReplied transitions a review to replied and records the reply text.
func (c *Collection) MarkReplied(id, reply string) bool {
	status := StatusReplied
	return c.Update(id, Patch{Status: &status, Reply: &reply})
}

// Reopen returns a replied review to pending. The previous reply text is
// kept on the review for reuse.
func (c *Collection) Reopen(id string) bool {
	status := StatusPending
	return c.Update(id, Patch{Status: &status})
}

// Filter is a pure projection over the collection.
type Filter string

const (
	FilterPending Filter = "pending"
	FilterReplied Filter = "replied"
	FilterAll     Filter = "all"
)

// Reviews returns the reviews matching the filter, newest first. The result
// is a copy; mutating it does not touch the collection.
func (c *Collection) Reviews(f Filter) []Review {
	out := make([]Review, 0, len(c.reviews))
	for _, r := range c.reviews {
		switch f {
		case FilterPending:
			if r.Status != StatusPending {
				continue
			}
		case FilterReplied:
			if r.Status != StatusReplied {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// All returns every review, newest first.
func (c *Collection) All() []Review {
	return c.Reviews(FilterAll)
}

// Get returns the review with the given id.
func (c *Collection) Get(id string) (Review, bool) {
	for _, r := range c.reviews {
		if r.ID == id {
			return r, true
		}
	}
	return Review{}, false
}

// Len is the total number of reviews.
func (c *Collection) Len() int {
	return len(c.reviews)
}

// PendingCount is derived from the live collection, never stored.
func (c *Collection) PendingCount() int {
	n := 0
	for _, r := range c.reviews {
		if r.Status == StatusPending {
			n++
		}
	}
	return n
}

// RepliedCount is derived from the live collection, never stored.
func (c *Collection) RepliedCount() int {
	n := 0
	for _, r := range c.reviews {
		if r.Status == StatusReplied {
			n++
		}
	}
	return n
}
