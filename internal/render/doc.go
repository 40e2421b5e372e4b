// Package render converts a parsed Python module into algorithm2e markup.
//
// Назначение: обход pyast.Tree и выдача токенов разметки с учётом границ
// строк (`\;` и отступы) и математических прогонов (`$ ... $`).
// Не делает: сборку LaTeX-документа (см. internal/document), разбор
// исходника и вывод диагностик.
// Зависимости: internal/pyast, internal/collect, internal/naming, internal/trace.
package render
