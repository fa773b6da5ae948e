// Package pricing формирует ценовые предложения из флагов
// классификации, сентимента отзывов и цены конкурента.
//
// Скидочные триггеры работают по принципу take-max, не складываются.
// Ветка повышения цены взаимоисключается со скидкой порядком проверок:
// повышение рассматривается только пока скидка равна нулю.
package pricing
