package board

import (
	"strconv"
	"strings"
	"unicode"
)

// StartFEN is the FEN string for the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a Forsyth-Edwards Notation string into a Position. Errors
// are *ParseError values carrying a tagged Kind.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, newParseError(ErrUnexpectedEnd, "fields", "need at least 4 space-separated fields")
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, newParseError(ErrInvalidSideToMove, "side to move", parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, newParseError(ErrInvalidEnPassant, "en passant", parts[3])
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		if parts[4] == "" {
			return nil, newParseError(ErrEmptyHalfmove, "halfmove clock", parts[4])
		}
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, newParseError(ErrInvalidHalfmove, "halfmove clock", parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		if parts[5] == "" {
			return nil, newParseError(ErrEmptyFullmove, "fullmove number", parts[5])
		}
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, newParseError(ErrInvalidFullmove, "fullmove number", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.updateOccupied()
	pos.findKings()
	pos.Hash = FullHash(pos)
	pos.PawnKey = FullPawnHash(pos)
	pos.UpdateCheckers()

	return pos, nil
}

func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return newParseError(ErrUnexpectedEnd, "piece placement", placement)
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return newParseError(ErrFileDoesNotSumToEight, "piece placement", rankStr)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			if c == '0' || c == '9' || unicode.IsDigit(c) {
				return newParseError(ErrInvalidDigit, "piece placement", string(c))
			}

			if c > unicode.MaxASCII || !unicode.IsLetter(c) {
				return newParseError(ErrUnexpectedChar, "piece placement", string(c))
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return newParseError(ErrUnknownPiece, "piece placement", string(c))
			}
			pos.setPiece(piece, NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return newParseError(ErrFileDoesNotSumToEight, "piece placement", rankStr)
		}
	}

	return nil
}

func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.CastlingRights = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.CastlingRights |= WhiteKingSideCastle
		case 'Q':
			pos.CastlingRights |= WhiteQueenSideCastle
		case 'k':
			pos.CastlingRights |= BlackKingSideCastle
		case 'q':
			pos.CastlingRights |= BlackQueenSideCastle
		default:
			return newParseError(ErrInvalidCastle, "castling rights", string(c))
		}
	}

	return nil
}

// ToFEN renders the position as a FEN string.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			sq := NewSquare(file, rank)
			piece := p.PieceAt(sq)
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.CastlingRights.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}
