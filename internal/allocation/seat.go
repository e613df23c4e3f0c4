package allocation

import (
	"strconv"
	"strings"
)

// ColumnLetter converts a zero-based column index to its letter label:
// 0 -> A, 25 -> Z, 26 -> AA.
func ColumnLetter(i int) string {
	if i < 0 {
		return ""
	}
	res := []rune{}
	for {
		rem := i % 26
		res = append(res, rune('A'+rem))
		i = i/26 - 1
		if i < 0 {
			break
		}
	}
	for j, k := 0, len(res)-1; j < k; j, k = j+1, k-1 {
		res[j], res[k] = res[k], res[j]
	}
	return string(res)
}

// SeatLabel builds the label of the cell at (col, row), both zero-based.
// Rows are printed one-based: SeatLabel(1, 0) == "B1".
func SeatLabel(col, row int) string {
	return ColumnLetter(col) + strconv.Itoa(row+1)
}

// maxColumnLetters bounds the letter prefix accepted by ParseSeatLabel.
// Six letters address more than 300 million columns.
const maxColumnLetters = 6

// ParseSeatLabel is the inverse of SeatLabel. It returns false for
// labels without a letter prefix, with more than maxColumnLetters
// letters, without a row number or with a row below 1.
func ParseSeatLabel(label string) (col, row int, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	i := 0
	n := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		if i < maxColumnLetters {
			n = n*26 + int(s[i]-'A'+1)
		}
		i++
	}
	if i == 0 || i == len(s) || i > maxColumnLetters {
		return 0, 0, false
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return 0, 0, false
		}
	}
	r, err := strconv.Atoi(s[i:])
	if err != nil || r < 1 {
		return 0, 0, false
	}
	return n - 1, r - 1, true
}
