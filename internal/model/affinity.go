package model

import (
	"fmt"
	"math/rand"
)

// Affinity is the elemental type carried by a piece.
type Affinity int

const (
	Normal Affinity = iota
	Fire
	Water
	Electric
	Grass
	Ice
	Fighting
	Poison
	Ground
	Flying
	Psychic
	Bug
	Rock
	Ghost
	Dragon
	Dark
	Steel
	Fairy
	// NoType is the neutral affinity of empty squares.
	NoType
)

const affinityCount = int(NoType) + 1

var affinityNames = [affinityCount]string{
	"normal", "fire", "water", "electric", "grass", "ice", "fighting", "poison", "ground",
	"flying", "psychic", "bug", "rock", "ghost", "dragon", "dark", "steel", "fairy", "none",
}

func (a Affinity) valid() bool {
	return a >= Normal && a <= NoType
}

func (a Affinity) String() string {
	if !a.valid() {
		return fmt.Sprintf("Affinity(%d)", int(a))
	}
	return affinityNames[a]
}

func (a Affinity) MarshalText() ([]byte, error) {
	if !a.valid() {
		return nil, fmt.Errorf("invalid affinity %d", int(a))
	}
	return []byte(affinityNames[a]), nil
}

func (a *Affinity) UnmarshalText(text []byte) error {
	for i, name := range affinityNames {
		if name == string(text) {
			*a = Affinity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown affinity %q", string(text))
}

// InteractionType is the outcome of an attacker affinity meeting a defender affinity.
// The zero value means no interaction has been evaluated.
type InteractionType int

const (
	InteractionEmpty InteractionType = iota
	SuperEffective
	NotVeryEffective
	NoEffect
	InteractionNormal
)

var interactionNames = [...]string{"empty", "superEffective", "notVeryEffective", "noEffect", "normal"}

func (t InteractionType) String() string {
	if t < InteractionEmpty || t > InteractionNormal {
		return fmt.Sprintf("InteractionType(%d)", int(t))
	}
	return interactionNames[t]
}

func (t InteractionType) MarshalText() ([]byte, error) {
	if t < InteractionEmpty || t > InteractionNormal {
		return nil, fmt.Errorf("invalid interaction type %d", int(t))
	}
	return []byte(interactionNames[t]), nil
}

func (t *InteractionType) UnmarshalText(text []byte) error {
	for i, name := range interactionNames {
		if name == string(text) {
			*t = InteractionType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown interaction type %q", string(text))
}

// Rows are attackers, columns defenders, both in Affinity order.
// S super effective, h not very effective, 0 no effect, . normal.
var typeChartRows = [affinityCount]string{
	"............h0..h..", // normal
	".hh.SS.....Sh.h.S..", // fire
	".Sh.h...S...S.h....", // water
	"..Shh...0S....h....", // electric
	".hS.h..hSh.hS.h.h..", // grass
	".hh.Sh..SS....S.h..", // ice
	"S....S.h.hhhS0.SSh.", // fighting
	"....S..hh...hh..0S.", // poison
	".S.Sh..S.0.hS...S..", // ground
	"...hS.S....Sh...h..", // flying
	"......SS..h....0h..", // psychic
	".h..S.hh.hS..h.Shh.", // bug
	".S...Sh.hS.S....h..", // rock
	"0.........S..S.h...", // ghost
	"..............S.h0.", // dragon
	"......h...S..S.h.h.", // dark
	".hhh.S......S...hS.", // steel
	".h....Sh......SSh..", // fairy
	"...................", // none
}

var typeChart = buildTypeChart()

func buildTypeChart() [affinityCount][affinityCount]InteractionType {
	var chart [affinityCount][affinityCount]InteractionType
	for attacker, row := range typeChartRows {
		if len(row) != affinityCount {
			panic(fmt.Sprintf("type chart row %d has %d entries", attacker, len(row)))
		}
		for defender := 0; defender < affinityCount; defender++ {
			switch row[defender] {
			case 'S':
				chart[attacker][defender] = SuperEffective
			case 'h':
				chart[attacker][defender] = NotVeryEffective
			case '0':
				chart[attacker][defender] = NoEffect
			case '.':
				chart[attacker][defender] = InteractionNormal
			default:
				panic(fmt.Sprintf("type chart row %d has bad entry %q", attacker, row[defender]))
			}
		}
	}
	return chart
}

// Matchup resolves an attack by attacker on defender. Unknown affinities act as NoType.
func Matchup(attacker, defender Affinity) InteractionType {
	if !attacker.valid() {
		attacker = NoType
	}
	if !defender.valid() {
		defender = NoType
	}
	return typeChart[attacker][defender]
}

// Affinities returns the 18 real affinities in declaration order.
func Affinities() []Affinity {
	out := make([]Affinity, 0, affinityCount-1)
	for a := Normal; a < NoType; a++ {
		out = append(out, a)
	}
	return out
}

// ShuffledAffinities returns the real affinities in random order.
func ShuffledAffinities(rng *rand.Rand) []Affinity {
	out := Affinities()
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
