// Package resolve сверяет предложения пополнения и ценовые предложения
// на противоречия.
//
// Текущая политика: пересечения только логируются, предложения проходят
// без изменений. Автоматическая корректировка (например подавление
// скидок на товары, срочно требующие пополнения) сознательно отложена.
package resolve
