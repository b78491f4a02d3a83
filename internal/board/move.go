package board

import "fmt"

// Move encodes a chess move in 16 bits:
//
//	bits 10-15: source square
//	bits 4-9:   destination square
//	bit 3:      promotion bit
//	bit 2:      capture bit
//	bit 1:      "special 0" bit
//	bit 0:      "special 1" bit
//
// The two special bits are overloaded across the remaining move kinds:
//
//	Promo Capt Spc0 Spc1  Move
//	0     0    0    0     Quiet
//	0     0    0    1     Double pawn push
//	0     0    1    0     King castle
//	0     0    1    1     Queen castle
//	0     1    0    0     Capture
//	0     1    0    1     En passant capture
//	1     0    0    0     Knight promotion
//	1     0    0    1     Bishop promotion
//	1     0    1    0     Rook promotion
//	1     0    1    1     Queen promotion
//	1     1    0    0     Knight promotion capture
//	1     1    0    1     Bishop promotion capture
//	1     1    1    0     Rook promotion capture
//	1     1    1    1     Queen promotion capture
//
// NoMove (the zero value) is the null move: source and destination both A1,
// all attribute bits clear.
type Move uint16

const (
	sourceMask      uint16 = 0xFC00
	destinationMask uint16 = 0x03F0
	promoBit        uint16 = 0x0008
	captureBit      uint16 = 0x0004
	special0Bit     uint16 = 0x0002
	special1Bit     uint16 = 0x0001
	attrMask        uint16 = 0x000F
)

// NoMove is the null move.
const NoMove Move = 0

func newMove(source, dest Square) Move {
	return Move((uint16(source) << 10) | (uint16(dest) << 4))
}

// NewMove constructs a quiet move.
func NewMove(source, dest Square) Move {
	return newMove(source, dest)
}

// NewCapture constructs a capture move.
func NewCapture(source, dest Square) Move {
	m := newMove(source, dest)
	return Move(uint16(m) | captureBit)
}

// NewEnPassant constructs an en passant capture move.
func NewEnPassant(source, dest Square) Move {
	m := NewCapture(source, dest)
	return Move(uint16(m) | special1Bit)
}

// NewDoublePawnPush constructs a double pawn push move.
func NewDoublePawnPush(source, dest Square) Move {
	m := newMove(source, dest)
	return Move(uint16(m) | special1Bit)
}

// promoBits maps a promotion PieceType to its 2-bit encoding.
func promoBits(pt PieceType) uint16 {
	switch pt {
	case Knight:
		return 0
	case Bishop:
		return 1
	case Rook:
		return 2
	case Queen:
		return 3
	default:
		panic(fmt.Sprintf("board: invalid promotion piece type %v", pt))
	}
}

// NewPromotion constructs a non-capturing promotion move.
func NewPromotion(source, dest Square, promoted PieceType) Move {
	m := newMove(source, dest)
	return Move(uint16(m) | promoBit | promoBits(promoted))
}

// NewPromotionCapture constructs a capturing promotion move.
func NewPromotionCapture(source, dest Square, promoted PieceType) Move {
	m := NewPromotion(source, dest, promoted)
	return Move(uint16(m) | captureBit)
}

// NewKingsideCastle constructs a kingside castle move (king's own movement).
func NewKingsideCastle(source, dest Square) Move {
	m := newMove(source, dest)
	return Move(uint16(m) | special0Bit)
}

// NewQueensideCastle constructs a queenside castle move (king's own movement).
func NewQueensideCastle(source, dest Square) Move {
	m := newMove(source, dest)
	return Move(uint16(m) | special0Bit | special1Bit)
}

// From returns the source square.
func (m Move) From() Square {
	return Square((uint16(m) & sourceMask) >> 10)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((uint16(m) & destinationMask) >> 4)
}

// IsQuiet reports whether m carries none of the promotion/capture/special
// attribute bits.
func (m Move) IsQuiet() bool {
	return uint16(m)&attrMask == 0
}

// IsCapture reports whether m captures a piece (including en passant).
func (m Move) IsCapture() bool {
	return uint16(m)&captureBit != 0
}

// IsEnPassant reports whether m is an en passant capture.
func (m Move) IsEnPassant() bool {
	return uint16(m)&attrMask == captureBit|special1Bit
}

// IsDoublePawnPush reports whether m is a two-square pawn push.
func (m Move) IsDoublePawnPush() bool {
	return uint16(m)&attrMask == special1Bit
}

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool {
	return uint16(m)&promoBit != 0
}

// IsKingsideCastle reports whether m is a kingside castle.
func (m Move) IsKingsideCastle() bool {
	return uint16(m)&attrMask == special0Bit
}

// IsQueensideCastle reports whether m is a queenside castle.
func (m Move) IsQueensideCastle() bool {
	return uint16(m)&attrMask == special0Bit|special1Bit
}

// IsCastle reports whether m castles in either direction.
func (m Move) IsCastle() bool {
	return m.IsKingsideCastle() || m.IsQueensideCastle()
}

// Promotion returns the piece type a pawn is promoted to. Panics if m is not
// a promotion; callers must check IsPromotion first.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		panic("board: Promotion called on a non-promotion move")
	}
	switch uint16(m) & (special0Bit | special1Bit) {
	case 0:
		return Knight
	case 1:
		return Bishop
	case 2:
		return Rook
	default:
		return Queen
	}
}

// String returns the UCI representation of m, e.g. "e2e4" or "e7e8q".
// The null move renders as "0000".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// MoveList is a fixed-capacity buffer of pseudolegal moves, sized generously
// above the largest known legal move count in any reachable chess position
// (218) to avoid bounds checks during generation.
type MoveList struct {
	moves [224]Move
	count int
}

// Add appends m to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves currently in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set overwrites the move at index i, used by move ordering to sort in place.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap exchanges the moves at indices i and j.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether m is present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the populated prefix of the list's backing array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// ParseUCIMove parses a UCI move string ("e2e4", "e7e8q") against pos,
// classifying it into the correct Move encoding (quiet, capture, en
// passant, double push, castle, promotion) by consulting the position.
func ParseUCIMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, newParseError(ErrInvalidUCIMove, "uci move", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, newParseError(ErrInvalidUCIMove, "uci move", s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, newParseError(ErrInvalidUCIMove, "uci move", s)
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, newParseError(ErrInvalidUCIMove, "uci move", s)
	}
	pt := piece.Type()
	capturing := pos.PieceAt(to) != NoPiece

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, newParseError(ErrInvalidUCIMove, "uci move", s)
		}
		if capturing {
			return NewPromotionCapture(from, to, promo), nil
		}
		return NewPromotion(from, to, promo), nil
	}

	if pt == King {
		delta := int(to) - int(from)
		if delta == 2 {
			return NewKingsideCastle(from, to), nil
		}
		if delta == -2 {
			return NewQueensideCastle(from, to), nil
		}
	}
	if pt == Pawn {
		if to == pos.EnPassant && pos.EnPassant != NoSquare {
			return NewEnPassant(from, to), nil
		}
		if abs(to.Rank()-from.Rank()) == 2 {
			return NewDoublePawnPush(from, to), nil
		}
	}
	if capturing {
		return NewCapture(from, to), nil
	}
	return NewMove(from, to), nil
}
