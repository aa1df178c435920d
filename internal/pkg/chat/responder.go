// Package chat implements the study assistant conversation: class/board
// scoping, canned keyword responses and transcript export.
package chat

import (
	"fmt"
	"strings"
)

const (
	MinClass = 1
	MaxClass = 12

	BoardSEBA  = "SEBA"
	BoardCBSE  = "CBSE"
	BoardAHSEC = "AHSEC"
)

// BoardsForClass lists the boards a class can study under. Classes up to 10
// follow the secondary boards, 11 and 12 the higher-secondary ones.
func BoardsForClass(class int) []string {
	if class >= 11 {
		return []string{BoardAHSEC, BoardCBSE}
	}
	return []string{BoardSEBA, BoardCBSE}
}

// ClampClass forces class into the supported 1..12 range.
func ClampClass(class int) int {
	if class < MinClass {
		return MinClass
	}
	if class > MaxClass {
		return MaxClass
	}
	return class
}

// NormalizeBoard returns board if it is valid for class, otherwise the first
// valid board for that class. This is what keeps a SEBA selection from
// leaking into class 11 when the student moves up.
func NormalizeBoard(class int, board string) string {
	valid := BoardsForClass(ClampClass(class))
	b := strings.ToUpper(strings.TrimSpace(board))
	for _, v := range valid {
		if b == v {
			return v
		}
	}
	return valid[0]
}

// Responder produces assistant replies for student messages.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// Reply builds the assistant response for a student message scoped to a
// class and board. Matching is keyword based and case insensitive; the
// first matching rule wins.
func (r *Responder) Reply(message string, class int, board string) string {
	class = ClampClass(class)
	board = NormalizeBoard(class, board)
	msg := strings.ToLower(message)

	switch {
	case containsAny(msg, "hello", "hi"):
		return fmt.Sprintf("Hello! I'm your AI tutor for Class %d (%s). How can I help you with your studies today?", class, board)
	case strings.Contains(msg, "math"):
		return fmt.Sprintf("Great! Math for Class %d is a wonderful subject. What specific topic would you like help with? I can assist with algebra, geometry, arithmetic, and more.", class)
	case strings.Contains(msg, "science"):
		return fmt.Sprintf("Science is fascinating! For Class %d under %s, I can help you with physics, chemistry, and biology concepts. What would you like to learn?", class, board)
	default:
		return fmt.Sprintf("That's an interesting question about your Class %d studies! Let me help you understand this topic better. Could you provide more details about what you'd like to learn?", class)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
