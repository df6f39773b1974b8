package moderation

// Next - идентификатор следующего объявления. Существование не проверяется,
// отсутствующее объявление проявится как NotFound при загрузке.
func Next(id int64) int64 {
	return id + 1
}

// Previous - идентификатор предыдущего объявления, если он положительный.
func Previous(id int64) (int64, bool) {
	if id <= 1 {
		return 0, false
	}
	return id - 1, true
}
