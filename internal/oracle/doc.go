// Package oracle содержит клиентов внешних советников:
// текстового (Ollama-совместимый chat API) и ценового (цены конкурентов).
//
// Советники недетерминированы, могут быть медленными или недоступными.
// Контракт для вызывающих: любая ошибка или ответ вне ожидаемого словаря
// деградирует к нейтральному значению правила и никогда не останавливает
// обработку сущности.
package oracle
