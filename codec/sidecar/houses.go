package sidecar

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/kolvynathar/tilemapcore/spatial"
)

// House is one entry of the houses sidecar: an out-of-core registry the
// map's house_id tile field refers to. Applying it beyond this shape
// (rent billing, guildhall assignment semantics) is out of scope per
// spec §4.4 ("applied to the map's house registry (out of scope here
// beyond its interface)").
type House struct {
	ID         uint32
	Name       string
	EntryPoint spatial.Position
	TownID     uint32
	Size       int32
	Rent       int64
	Guildhall  bool
}

type housesFile struct {
	XMLName xml.Name    `xml:"houses"`
	Houses  []xmlHouse `xml:"house"`
}

type xmlHouse struct {
	ID        uint32 `xml:"houseid,attr"`
	Name      string `xml:"name,attr"`
	EntryX    int32  `xml:"entryx,attr"`
	EntryY    int32  `xml:"entryy,attr"`
	EntryZ    int16  `xml:"entryz,attr"`
	TownID    uint32 `xml:"townid,attr"`
	Size      int32  `xml:"size,attr"`
	Rent      int64  `xml:"rent,attr"`
	Guildhall bool   `xml:"guildhall,attr,omitempty"`
}

// LoadHouses parses a houses XML sidecar into a flat registry. Every entry
// is kept in file order; duplicate house ids are not merged or dropped,
// matching the fail-soft, no-validation contract of the sidecar layer.
func LoadHouses(r io.Reader) ([]House, Result) {
	var doc housesFile
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Result{Err: fmt.Errorf("sidecar: decode houses xml: %w", err)}
	}
	out := make([]House, 0, len(doc.Houses))
	for _, h := range doc.Houses {
		out = append(out, House{
			ID:         h.ID,
			Name:       h.Name,
			EntryPoint: spatial.New(h.EntryX, h.EntryY, h.EntryZ),
			TownID:     h.TownID,
			Size:       h.Size,
			Rent:       h.Rent,
			Guildhall:  h.Guildhall,
		})
	}
	return out, Result{Success: true, Counts: map[string]int{"houses": len(out)}}
}

// SaveHouses serializes the registry back to the houses XML schema.
func SaveHouses(w io.Writer, houses []House) error {
	doc := housesFile{Houses: make([]xmlHouse, 0, len(houses))}
	for _, h := range houses {
		doc.Houses = append(doc.Houses, xmlHouse{
			ID:        h.ID,
			Name:      h.Name,
			EntryX:    h.EntryPoint.X,
			EntryY:    h.EntryPoint.Y,
			EntryZ:    h.EntryPoint.Z,
			TownID:    h.TownID,
			Size:      h.Size,
			Rent:      h.Rent,
			Guildhall: h.Guildhall,
		})
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("sidecar: encode houses xml: %w", err)
	}
	return nil
}
