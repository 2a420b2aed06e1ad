// Package vision проверяет снимки перед отправкой в сервис оценки позы.
// Полная проверка резкости, экспозиции и бликов собирается с тегом gocv.
package vision

// человек в полный рост на меньшем снимке распознаётся плохо
const defaultMinImageSide = 400
