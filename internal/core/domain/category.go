package domain

// Categories - справочник категорий, индекс равен categoryId.
var Categories = []string{
	"Электроника",
	"Недвижимость",
	"Транспорт",
	"Работа",
	"Услуги",
	"Животные",
	"Мода",
	"Детское",
}

// CategoryName возвращает название категории или пустую строку для неизвестного id.
func CategoryName(id int) string {
	if id < 0 || id >= len(Categories) {
		return ""
	}
	return Categories[id]
}
