// Package replenish рассчитывает заказы на пополнение для сущностей
// с флагом LOW_STOCK.
//
// Две отдельные политики, сознательно не унифицированные:
// с известным сроком поставки заказ покрывает ROP плюс прогнозируемый
// спрос за срок поставки; без него — минимальный добор до ROP.
package replenish
