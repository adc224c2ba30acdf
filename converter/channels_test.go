package converter

import (
	"testing"

	"github.com/binzume/ogreconv/host"
)

func curves(names ...string) []host.Curve {
	var c []host.Curve
	for _, n := range names {
		c = append(c, curve(n))
	}
	return c
}

func TestClassifyChannels(t *testing.T) {
	c, guessed, err := ClassifyChannels(curves("LocX", "LocY", "LocZ", "QuatW", "QuatX", "QuatY", "QuatZ", "SizeZ"))
	if err != nil || guessed {
		t.Fatal(err, guessed)
	}
	if c.Loc != [3]int{0, 1, 2} || c.Quat != [4]int{4, 5, 6, 3} || c.Size != [3]int{-1, -1, 7} {
		t.Error("channels: ", c)
	}
	if !c.HasLoc() || !c.HasQuat() || !c.HasSize() {
		t.Error("missing channels: ", c)
	}

	// Unrecognized names are a quaternion block.
	c, _, err = ClassifyChannels(curves("LocY", "rot0", "rot1", "rot2", "rot3", "SizeX"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Loc != [3]int{-1, 0, -1} || c.Quat != [4]int{1, 2, 3, 4} || c.Size != [3]int{5, -1, -1} {
		t.Error("quaternion block: ", c)
	}

	if _, _, err := ClassifyChannels(curves("LocX", "LocY", "unknown")); err == nil {
		t.Error("unknown curve without room for a quaternion should fail")
	}

	c, _, err = ClassifyChannels(curves("LocX", "QuatW", "QuatX"))
	if err != nil {
		t.Fatal(err)
	}
	if c.HasQuat() || c.HasSize() {
		t.Error("incomplete quaternion: ", c)
	}

	c, guessed, err = ClassifyChannels(nil)
	if err != nil || guessed || c.HasLoc() || c.HasQuat() || c.HasSize() {
		t.Error("no curves: ", c, guessed, err)
	}
}

func TestClassifyChannelsGuessed(t *testing.T) {
	tests := []struct {
		n    int
		loc  [3]int
		size [3]int
		quat [4]int
	}{
		{4, [3]int{-1, -1, -1}, [3]int{-1, -1, -1}, [4]int{0, 1, 2, 3}},
		{7, [3]int{0, 1, 2}, [3]int{-1, -1, -1}, [4]int{3, 4, 5, 6}},
		{10, [3]int{0, 1, 2}, [3]int{3, 4, 5}, [4]int{6, 7, 8, 9}},
	}
	for _, test := range tests {
		c, guessed, err := ClassifyChannels(curves(make([]string, test.n)...))
		if err != nil || !guessed {
			t.Fatal(test.n, err, guessed)
		}
		if c.Loc != test.loc || c.Size != test.size || c.Quat != test.quat {
			t.Error("guessed layout: ", test.n, c)
		}
	}

	for _, n := range []int{1, 3, 5, 8} {
		if _, _, err := ClassifyChannels(curves(make([]string, n)...)); err == nil {
			t.Error("unexpected layout for ", n, " curves")
		}
	}
}
