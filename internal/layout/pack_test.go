package layout

import (
	"slices"
	"testing"
)

func TestPackBiggestAlignmentFirst(t *testing.T) {
	// a: u8, b: u64, c: u32, d: u64
	members := []Member{{1, 1}, {8, 8}, {4, 4}, {8, 8}}
	got := Pack(members)

	wantOffsets := []uint64{20, 0, 16, 8}
	if !slices.Equal(got.Offsets, wantOffsets) {
		t.Fatalf("offsets = %v, want %v", got.Offsets, wantOffsets)
	}
	if got.Size != 24 || got.Align != 8 {
		t.Fatalf("size/align = %d/%d, want 24/8", got.Size, got.Align)
	}
	if !slices.Equal(got.Order, []int{1, 3, 2, 0}) {
		t.Fatalf("order = %v", got.Order)
	}
}

func TestPackDeterministic(t *testing.T) {
	members := []Member{{2, 2}, {1, 1}, {4, 4}, {2, 2}, {16, 16}, {1, 1}}
	first := Pack(members)
	for range 50 {
		again := Pack(members)
		if !slices.Equal(first.Offsets, again.Offsets) || first.Size != again.Size {
			t.Fatalf("pack is not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestPackTable(t *testing.T) {
	tests := []struct {
		name    string
		members []Member
		offsets []uint64
		size    uint64
		align   uint64
	}{
		{"empty", nil, []uint64{}, 0, 1},
		{"two i32", []Member{{4, 4}, {4, 4}}, []uint64{0, 4}, 8, 4},
		{"u8 then i32", []Member{{1, 1}, {4, 4}}, []uint64{4, 0}, 8, 4},
		{"zero sized", []Member{{0, 1}, {1, 1}}, []uint64{0, 0}, 1, 1},
		{"array member", []Member{Array(Member{4, 4}, 3), {8, 8}}, []uint64{8, 0}, 24, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pack(tt.members)
			if !slices.Equal(got.Offsets, tt.offsets) {
				t.Fatalf("offsets = %v, want %v", got.Offsets, tt.offsets)
			}
			if got.Size != tt.size || got.Align != tt.align {
				t.Fatalf("size/align = %d/%d, want %d/%d", got.Size, got.Align, tt.size, tt.align)
			}
			for i, off := range got.Offsets {
				if off%alignOf(tt.members[i]) != 0 {
					t.Fatalf("member %d misaligned at %d", i, off)
				}
			}
		})
	}
}

func TestRoundUp(t *testing.T) {
	cases := [][3]uint64{{0, 8, 0}, {1, 8, 8}, {8, 8, 8}, {9, 4, 12}, {5, 1, 5}, {5, 0, 5}}
	for _, c := range cases {
		if got := RoundUp(c[0], c[1]); got != c[2] {
			t.Fatalf("RoundUp(%d, %d) = %d, want %d", c[0], c[1], got, c[2])
		}
	}
}

func TestLookupTarget(t *testing.T) {
	tgt, err := Lookup("i686-pc-linux-gnu")
	if err != nil || tgt.PtrSize != 4 {
		t.Fatalf("Lookup(i686) = %+v, %v", tgt, err)
	}
	if _, err := Lookup("sparc-sun"); err == nil {
		t.Fatalf("expected error for unknown target")
	}
	if tgt, _ := Lookup(""); tgt != Default() {
		t.Fatalf("empty triple should map to default target")
	}
}
