package domain

import "time"

// Message as returned to sync clients. Name is joined from the owning
// identity at read time, so a later rename shows up in old history too.
type Message struct {
	Id        MsgId     `json:"id"`
	Name      string    `json:"name"`
	Text      MsgText   `json:"text"`
	CreatedAt time.Time `json:"created"`
}

// PostRequest carries one validated submission through the post pipeline.
type PostRequest struct {
	Name       string
	Email      Email
	Text       MsgText
	ClientAddr string
}
