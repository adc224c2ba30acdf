package converter

import (
	"github.com/binzume/ogreconv/host"
	"github.com/pkg/errors"
)

// ChannelMap holds the curve index of every transform channel of a bone, -1 when absent.
type ChannelMap struct {
	Loc  [3]int
	Quat [4]int // X, Y, Z, W
	Size [3]int
}

func newChannelMap() ChannelMap {
	return ChannelMap{Loc: [3]int{-1, -1, -1}, Quat: [4]int{-1, -1, -1, -1}, Size: [3]int{-1, -1, -1}}
}

func (c *ChannelMap) HasLoc() bool {
	return c.Loc[0] >= 0 || c.Loc[1] >= 0 || c.Loc[2] >= 0
}

// HasQuat is true only when all four quaternion components are mapped.
func (c *ChannelMap) HasQuat() bool {
	return c.Quat[0] >= 0 && c.Quat[1] >= 0 && c.Quat[2] >= 0 && c.Quat[3] >= 0
}

func (c *ChannelMap) HasSize() bool {
	return c.Size[0] >= 0 || c.Size[1] >= 0 || c.Size[2] >= 0
}

var channelNames = map[string]func(c *ChannelMap, i int){
	"LocX":  func(c *ChannelMap, i int) { c.Loc[0] = i },
	"LocY":  func(c *ChannelMap, i int) { c.Loc[1] = i },
	"LocZ":  func(c *ChannelMap, i int) { c.Loc[2] = i },
	"SizeX": func(c *ChannelMap, i int) { c.Size[0] = i },
	"SizeY": func(c *ChannelMap, i int) { c.Size[1] = i },
	"SizeZ": func(c *ChannelMap, i int) { c.Size[2] = i },
	"QuatX": func(c *ChannelMap, i int) { c.Quat[0] = i },
	"QuatY": func(c *ChannelMap, i int) { c.Quat[1] = i },
	"QuatZ": func(c *ChannelMap, i int) { c.Quat[2] = i },
	"QuatW": func(c *ChannelMap, i int) { c.Quat[3] = i },
}

// ClassifyChannels maps the curves of a bone to transform channels.
// Curves are matched by name. Some hosts report quaternion curves under other
// names; the first unrecognized name starts a block of four quaternion curves.
// When the host reports no names at all, the layout is guessed from the number
// of curves and guessed is true.
func ClassifyChannels(curves []host.Curve) (c ChannelMap, guessed bool, err error) {
	c = newChannelMap()
	if len(curves) == 0 {
		return c, false, nil
	}
	if _, named := curves[0].Name(); !named {
		return guessChannels(len(curves))
	}

	quatBlock := false
	for i := 0; i < len(curves); i++ {
		name, _ := curves[i].Name()
		if set, ok := channelNames[name]; ok {
			set(&c, i)
			continue
		}
		if quatBlock {
			continue
		}
		if i+4 > len(curves) {
			return c, false, errors.Errorf("unknown curve %q", name)
		}
		c.Quat = [4]int{i, i + 1, i + 2, i + 3}
		quatBlock = true
		i += 3
	}
	return c, false, nil
}

// guessChannels lays out location, then size, then the quaternion.
func guessChannels(n int) (ChannelMap, bool, error) {
	c := newChannelMap()
	index := 0
	switch n {
	case 4, 7, 10:
	default:
		return c, false, errors.Errorf("cannot guess the channels of %d unnamed curves", n)
	}
	if n >= 7 {
		c.Loc = [3]int{index, index + 1, index + 2}
		index += 3
	}
	if n == 10 {
		c.Size = [3]int{index, index + 1, index + 2}
		index += 3
	}
	c.Quat = [4]int{index, index + 1, index + 2, index + 3}
	return c, true, nil
}
