package services

import (
	"sort"

	"github.com/AraragiEro/kahuna-bot/internal/domain/industry"
)

type stockKey struct {
	structureID int64
	typeID      industry.TypeID
}

// buildLogistics compares what the startable jobs consume at each structure
// with what production storage holds there. Each structure serves itself
// first; the remaining need is filled from other structures in id order.
func buildLogistics(res *Resolution) Logistics {
	need := map[stockKey]int64{}
	for _, n := range res.Nodes() {
		materials, ok := res.Catalog().MaterialsFor(n.TypeID)
		if !ok || n.IsRawMaterial {
			continue
		}
		for _, unit := range n.WorkList {
			if !unit.Available {
				continue
			}
			for _, m := range unit.MaterialNeed(materials) {
				need[stockKey{structureID: unit.StructureID, typeID: m.TypeID}] += m.Quantity
			}
		}
	}

	supply := map[stockKey]int64{}
	for _, asset := range res.Snapshot().Assets() {
		if _, inGraph := res.Graph.Node(asset.TypeID); !inGraph {
			continue
		}
		structureID, ok := res.Snapshot().StructureOf(asset.LocationID)
		if !ok {
			continue
		}
		supply[stockKey{structureID: structureID, typeID: asset.TypeID}] += asset.Quantity
	}

	out := Logistics{
		Need:      quantityRows(res, need),
		Supply:    quantityRows(res, supply),
		Transport: []TransportRow{},
	}

	remainingNeed := make(map[stockKey]int64, len(need))
	for k, v := range need {
		remainingNeed[k] = v
	}
	remainingSupply := make(map[stockKey]int64, len(supply))
	for k, v := range supply {
		remainingSupply[k] = v
	}

	needKeys := sortedKeys(remainingNeed)
	for _, k := range needKeys {
		covered := min(remainingNeed[k], remainingSupply[k])
		remainingNeed[k] -= covered
		remainingSupply[k] -= covered
	}

	supplyKeys := sortedKeys(remainingSupply)
	for _, nk := range needKeys {
		for _, sk := range supplyKeys {
			if remainingNeed[nk] == 0 {
				break
			}
			if sk.typeID != nk.typeID || sk.structureID == nk.structureID || remainingSupply[sk] == 0 {
				continue
			}
			moved := min(remainingNeed[nk], remainingSupply[sk])
			remainingNeed[nk] -= moved
			remainingSupply[sk] -= moved
			out.Transport = append(out.Transport, TransportRow{
				FromID:   sk.structureID,
				From:     structureName(res, sk.structureID),
				ToID:     nk.structureID,
				To:       structureName(res, nk.structureID),
				TypeID:   nk.typeID,
				Name:     res.Catalog().Name(nk.typeID),
				Quantity: moved,
			})
		}
	}
	return out
}

func sortedKeys(m map[stockKey]int64) []stockKey {
	keys := make([]stockKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].structureID != keys[j].structureID {
			return keys[i].structureID < keys[j].structureID
		}
		return keys[i].typeID < keys[j].typeID
	})
	return keys
}

func quantityRows(res *Resolution, m map[stockKey]int64) []StructureQuantity {
	rows := make([]StructureQuantity, 0, len(m))
	for _, k := range sortedKeys(m) {
		if m[k] <= 0 {
			continue
		}
		rows = append(rows, StructureQuantity{
			StructureID:   k.structureID,
			StructureName: structureName(res, k.structureID),
			TypeID:        k.typeID,
			Name:          res.Catalog().Name(k.typeID),
			Quantity:      m[k],
		})
	}
	return rows
}

func structureName(res *Resolution, id int64) string {
	if st, ok := res.Snapshot().Structure(id); ok {
		return st.String()
	}
	return (&industry.Structure{ID: id}).String()
}
