// Package classify превращает сырую запись inventory в приоритизированный
// статус запасов с набором флагов.
//
// Классификация чистая и детерминированная: одинаковая запись и одинаковое
// "сейчас" дают одинаковый результат. Отсутствующие или кривые данные
// деградируют к явным флагам (NO_DATA, STOCK_LEVEL_UNKNOWN,
// INVALID_EXPIRY_DATE), а не к ошибкам.
package classify
