// Package otbm implements the map container codec: encoding and decoding
// a worldmap.ChunkedMap to and from the nested binary node stream defined
// by codec/node.
package otbm

import "errors"

// Identifier is the four-byte magic every container file starts with.
var Identifier = [4]byte{'O', 'T', 'B', 'M'}

// Node types. Exact byte assignments are local to this codec; what matters
// is that Save and Load agree, which they do by construction.
const (
	typeRootHeader byte = iota + 1
	typeMapData
	typeTileArea
	typeTile
	typeHouseTile
	typeItem
	typeTowns
	typeTown
	typeSpawns
	typeSpawnArea
	typeMonster
	typeWaypoints
	typeWaypoint
)

// MapData attribute tags.
const (
	attrDescription byte = iota + 1
	attrExtSpawnFile
	attrExtHouseFile
)

// Tile attribute tags. Items are always carried as child nodes (type
// typeItem) rather than as an inline tile attribute: the inline-item form
// some descriptions of this format mention has no framing of its own to
// host a nested container item's children, so it collapses into the
// child-node path here, with the same ground/stack disambiguation rule.
const (
	attrTileFlags byte = iota + 32
)

// Item attribute tags.
const (
	attrActionID byte = iota + 64
	attrUniqueID
	attrCount
	attrCharges
	attrTier
	attrDuration
	attrText
	attrDescriptionItem
	attrTeleportDest
	attrDepotID
	attrHouseDoorID
	attrAttributeMap
)

// MaxSupportedVersion is the highest otbm_version this codec understands.
const MaxSupportedVersion = 4

// Errors returned by this codec. Wrapped with positional context before
// being surfaced; never escape the load/save entry points unwrapped.
var (
	ErrUnsupportedVersion = errors.New("otbm: unsupported container version")
	ErrUnknownNodeType    = errors.New("otbm: unexpected node type")
	ErrMalformed          = errors.New("otbm: malformed container")
)

// Header is the root-node summary used by the fast header-only read path.
type Header struct {
	Version      uint32
	Width        uint16
	Height       uint16
	ItemsMajor   uint32
	ItemsMinor   uint32
	Description  string
	ExtSpawnFile string
	ExtHouseFile string
}
