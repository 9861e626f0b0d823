package server

import (
	"encoding/json"

	"github.com/cardtable/tablesvc/internal/dispatch"
)

// decode unmarshals an Inbound message's payload into dst.
func decode(in dispatch.Inbound, dst any) error {
	return json.Unmarshal(in.Raw, dst)
}
