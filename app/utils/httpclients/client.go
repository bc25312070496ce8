package httpclients

import (
	"time"

	"resty.dev/v3"
)

// NewClient builds a resty client with the shared defaults for outbound
// calls. The name shows up in the User-Agent so misbehaving collaborators
// are easy to attribute.
func NewClient(name string) *resty.Client {
	return resty.New().
		SetTimeout(60 * time.Second).
		SetHeader("User-Agent", "puml-api-gateway/"+name)
}
