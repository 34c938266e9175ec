package otbm

import (
	"bytes"
	"fmt"

	"github.com/kolvynathar/tilemapcore/codec/node"
	"github.com/kolvynathar/tilemapcore/tile"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

func readItem(n *node.Node) (*tile.Item, error) {
	serverID, err := n.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("otbm: item server id: %w", err)
	}
	it := tile.NewItem(serverID)

attrs:
	for {
		tag, err := n.PeekU8()
		if err != nil {
			break
		}
		switch tag {
		case attrActionID:
			n.ReadU8()
			v, err := n.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("otbm: item action id: %w", err)
			}
			it.Data.ActionID = v
		case attrUniqueID:
			n.ReadU8()
			v, err := n.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("otbm: item unique id: %w", err)
			}
			it.Data.UniqueID = v
		case attrCount:
			n.ReadU8()
			v, err := n.ReadU8()
			if err != nil {
				return nil, fmt.Errorf("otbm: item count: %w", err)
			}
			it.Data.Count = v
		case attrCharges:
			n.ReadU8()
			v, err := n.ReadU8()
			if err != nil {
				return nil, fmt.Errorf("otbm: item charges: %w", err)
			}
			it.Data.Charges = v
		case attrTier:
			n.ReadU8()
			v, err := n.ReadU8()
			if err != nil {
				return nil, fmt.Errorf("otbm: item tier: %w", err)
			}
			it.Data.Tier = v
		case attrDuration:
			n.ReadU8()
			v, err := n.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("otbm: item duration: %w", err)
			}
			it.Data.Duration = v
		case attrText:
			n.ReadU8()
			s, err := n.ReadString()
			if err != nil {
				return nil, fmt.Errorf("otbm: item text: %w", err)
			}
			it.Extension().Text = s
		case attrDescriptionItem:
			n.ReadU8()
			s, err := n.ReadString()
			if err != nil {
				return nil, fmt.Errorf("otbm: item description: %w", err)
			}
			it.Extension().Description = s
		case attrTeleportDest:
			n.ReadU8()
			x, err := n.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("otbm: teleport x: %w", err)
			}
			y, err := n.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("otbm: teleport y: %w", err)
			}
			z, err := n.ReadU8()
			if err != nil {
				return nil, fmt.Errorf("otbm: teleport z: %w", err)
			}
			ext := it.Extension()
			ext.HasTeleport = true
			ext.TeleportX, ext.TeleportY, ext.TeleportZ = int32(x), int32(y), int16(z)
		case attrDepotID:
			n.ReadU8()
			v, err := n.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("otbm: depot id: %w", err)
			}
			ext := it.Extension()
			ext.HasDepot = true
			ext.DepotID = v
		case attrHouseDoorID:
			n.ReadU8()
			v, err := n.ReadU8()
			if err != nil {
				return nil, fmt.Errorf("otbm: house door id: %w", err)
			}
			ext := it.Extension()
			ext.HasDoor = true
			ext.DoorID = v
		case attrAttributeMap:
			n.ReadU8()
			attrs, err := readAttributeMap(n)
			if err != nil {
				return nil, fmt.Errorf("otbm: attribute map: %w", err)
			}
			it.Extension().Attributes = attrs
		default:
			break attrs
		}
	}

	for _, child := range n.Children() {
		if child.Type != typeItem {
			return nil, fmt.Errorf("otbm: container child type %d: %w", child.Type, ErrUnknownNodeType)
		}
		childItem, err := readItem(child)
		if err != nil {
			return nil, err
		}
		it.Container = append(it.Container, childItem)
	}
	return it, nil
}

// readAttributeMap decodes the v4 generic attribute map. The map is stored
// as a u32-length-prefixed NBT compound, decoded via gophertunnel's nbt
// package rather than a hand-rolled tag/value reader: the tag union this
// format needs (string/i64/f64/bool) is exactly an NBT compound's value
// set once bools are folded into bytes.
func readAttributeMap(n *node.Node) (map[string]tile.AttributeValue, error) {
	length, err := n.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("attribute map length: %w", err)
	}
	raw, err := n.ReadBytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("attribute map payload: %w", err)
	}
	var decoded map[string]interface{}
	if err := nbt.NewDecoder(bytes.NewReader(raw)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("nbt decode: %w", err)
	}
	out := make(map[string]tile.AttributeValue, len(decoded))
	for k, v := range decoded {
		switch val := v.(type) {
		case string:
			out[k] = tile.AttributeValue{Kind: tile.AttrString, Str: val}
		case int64:
			out[k] = tile.AttributeValue{Kind: tile.AttrInt, Int: val}
		case int32:
			out[k] = tile.AttributeValue{Kind: tile.AttrInt, Int: int64(val)}
		case float64:
			out[k] = tile.AttributeValue{Kind: tile.AttrFloat, Flt: val}
		case float32:
			out[k] = tile.AttributeValue{Kind: tile.AttrFloat, Flt: float64(val)}
		case byte:
			out[k] = tile.AttributeValue{Kind: tile.AttrBool, Bool: val != 0}
		default:
			return nil, fmt.Errorf("attribute map: unsupported value type %T for key %q", v, k)
		}
	}
	return out, nil
}

func writeItem(w *node.Writer, it *tile.Item) {
	w.BeginNode(typeItem)
	w.WriteU16(it.ServerID)
	if it.Data.ActionID != 0 {
		w.WriteU8(attrActionID)
		w.WriteU16(it.Data.ActionID)
	}
	if it.Data.UniqueID != 0 {
		w.WriteU8(attrUniqueID)
		w.WriteU16(it.Data.UniqueID)
	}
	if it.Data.Count != 0 {
		w.WriteU8(attrCount)
		w.WriteU8(it.Data.Count)
	}
	if it.Data.Charges != 0 {
		w.WriteU8(attrCharges)
		w.WriteU8(it.Data.Charges)
	}
	if it.Data.Tier != 0 {
		w.WriteU8(attrTier)
		w.WriteU8(it.Data.Tier)
	}
	if it.Data.Duration != 0 {
		w.WriteU8(attrDuration)
		w.WriteU16(it.Data.Duration)
	}
	if ext := it.ExtensionOrNil(); ext != nil {
		if ext.Text != "" {
			w.WriteU8(attrText)
			w.WriteString(ext.Text)
		}
		if ext.Description != "" {
			w.WriteU8(attrDescriptionItem)
			w.WriteString(ext.Description)
		}
		if ext.HasTeleport {
			w.WriteU8(attrTeleportDest)
			w.WriteU16(uint16(ext.TeleportX))
			w.WriteU16(uint16(ext.TeleportY))
			w.WriteU8(uint8(ext.TeleportZ))
		}
		if ext.HasDepot {
			w.WriteU8(attrDepotID)
			w.WriteU16(ext.DepotID)
		}
		if ext.HasDoor {
			w.WriteU8(attrHouseDoorID)
			w.WriteU8(ext.DoorID)
		}
		if len(ext.Attributes) > 0 {
			writeAttributeMap(w, ext.Attributes)
		}
	}
	for _, child := range it.Container {
		writeItem(w, child)
	}
	w.EndNode()
}

func writeAttributeMap(w *node.Writer, attrs map[string]tile.AttributeValue) {
	plain := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		switch v.Kind {
		case tile.AttrString:
			plain[k] = v.Str
		case tile.AttrInt:
			plain[k] = v.Int
		case tile.AttrFloat:
			plain[k] = v.Flt
		case tile.AttrBool:
			b := byte(0)
			if v.Bool {
				b = 1
			}
			plain[k] = b
		}
	}
	var buf bytes.Buffer
	if err := nbt.NewEncoder(&buf).Encode(plain); err != nil {
		return
	}
	w.WriteU8(attrAttributeMap)
	w.WriteU32(uint32(buf.Len()))
	w.WriteBytes(buf.Bytes())
}
