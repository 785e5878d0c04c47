package inventory

import "sort"

// Correction diferencia entre el stock cacheado de un producto y la suma de su ledger.
type Correction struct {
	ProductID string
	Cached    int
	Computed  int
}

// Delta cantidad que hay que sumar al cacheado para igualar al ledger.
func (c Correction) Delta() int { return c.Computed - c.Cached }

// Drift compara el stock cacheado con el calculado desde los movimientos.
// Un producto sin movimientos tiene stock calculado 0. El resultado se ordena por ProductID.
func Drift(cached, computed map[string]int) []Correction {
	var out []Correction
	for id, c := range cached {
		if sum := computed[id]; sum != c {
			out = append(out, Correction{ProductID: id, Cached: c, Computed: sum})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
