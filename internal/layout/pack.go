package layout

import "slices"

// Member is the size and alignment of one aggregate component.
type Member struct {
	Size  uint64
	Align uint64
}

// Result is the layout of an aggregate. Offsets are reported in declaration
// order, Order lists declaration indices in memory order.
type Result struct {
	Size    uint64
	Align   uint64
	Offsets []uint64
	Order   []int
}

// Pack lays members out biggest-alignment first. Members with equal alignment
// keep their declaration order, so identical inputs always produce identical
// offsets. The aggregate size is padded to the largest member alignment.
func Pack(members []Member) Result {
	order := make([]int, len(members))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		aa, ba := alignOf(members[a]), alignOf(members[b])
		switch {
		case aa > ba:
			return -1
		case aa < ba:
			return 1
		default:
			return 0
		}
	})

	offsets := make([]uint64, len(members))
	var size uint64
	align := uint64(1)
	for _, idx := range order {
		m := members[idx]
		a := alignOf(m)
		size = RoundUp(size, a)
		offsets[idx] = size
		size += m.Size
		align = max(align, a)
	}
	return Result{
		Size:    RoundUp(size, align),
		Align:   align,
		Offsets: offsets,
		Order:   order,
	}
}

// Array returns the layout of n consecutive elements.
func Array(elem Member, n uint64) Member {
	a := alignOf(elem)
	return Member{Size: RoundUp(elem.Size, a) * n, Align: a}
}

// RoundUp pads n to the next multiple of align.
func RoundUp(n, align uint64) uint64 {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func alignOf(m Member) uint64 {
	if m.Align == 0 {
		return 1
	}
	return m.Align
}
