package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Article is one tracked piece of content together with every title it has carried.
type Article struct {
	ID         string `json:"_id,omitempty" bson:"_id,omitempty" db:"id"`
	Org        string `json:"org" bson:"org" db:"org"`
	ArticleID  string `json:"articleID" bson:"articleID" db:"article_id"`
	FeedTitle  string `json:"feedtitle" bson:"feedtitle" db:"feedtitle"`
	SourceFeed string `json:"sourcefeed" bson:"sourcefeed" db:"sourcefeed"`
	Lang       string `json:"lang" bson:"lang" db:"lang"`
	Link       string `json:"link" bson:"link" db:"link"`
	GUID       string `json:"guid" bson:"guid" db:"guid"`
	Titles     Titles `json:"titles" bson:"titles" db:"titles"`
	FirstSeen  string `json:"first_seen" bson:"first_seen" db:"first_seen"`
	PubDate    string `json:"pub_date" bson:"pub_date" db:"pub_date"`
}

// Title is a single observed title snapshot.
type Title struct {
	Title     string `json:"title" bson:"title"`
	Datetime  string `json:"datetime" bson:"datetime"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}

// Titles is the append-only title history of an article, oldest first.
// SQL backends store it as a JSON document.
type Titles []Title

// Value implements driver.Valuer.
func (t Titles) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Titles) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("titles: unsupported column type %T", src)
	}
	return json.Unmarshal(data, t)
}

// Latest returns the most recent title snapshot.
func (t Titles) Latest() (Title, bool) {
	if len(t) == 0 {
		return Title{}, false
	}
	return t[len(t)-1], true
}
