// Package fuzztests houses Go fuzz harnesses for the render pipeline
// (source -> lexer -> parser -> collect -> render). They guard against panics,
// hangs and runaway recursion on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
