// Package fuzztests houses Go fuzz harnesses that drive the whole exprua
// pipeline (source -> lexer -> parser -> evaluator) with arbitrary input.
// The goal is to catch panics, hangs and malformed trees rather than to
// check results.
//
// Назначение: прогонять байты через лексер, парсер и вычислитель, проверяя
// структурные инварианты дерева.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/eval, internal/testkit.
package fuzztests
