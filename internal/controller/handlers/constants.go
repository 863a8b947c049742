package handlers

const helpText = "📚 Справка по командам:\n\n" +
	"Слоты:\n" +
	"/myslots - Мои слоты\n" +
	"/newslot - Создать слот\n" +
	"/open <id> - Открыть слот для обмена\n" +
	"/close <id> - Снять слот с обмена\n" +
	"/delete <id> - Удалить слот\n\n" +
	"Обмен:\n" +
	"/swappable - Чужие слоты, доступные для обмена\n" +
	"/propose <мой id> <чужой id> - Предложить обмен\n" +
	"/requests - Мои заявки\n" +
	"/accept <id> - Принять заявку\n" +
	"/reject <id> - Отклонить заявку\n" +
	"/withdraw <id> - Отозвать свою заявку\n\n" +
	"/cancel - Прервать текущий диалог\n\n" +
	"Время указывается в UTC в формате ДД.ММ.ГГГГ ЧЧ:ММ"
