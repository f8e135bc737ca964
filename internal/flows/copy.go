package flows

// Copy holds the operator-facing text used by the flows.
type Copy struct {
	PromptName        string
	PromptContentKind string
	PromptURL         string
	PromptText        string
	PromptMedia       string

	PromptUpdateSelect string
	PromptUpdateField  string
	PromptCurrentName  string
	PromptCurrentURL   string
	PromptCurrentText  string
	PromptCurrentMedia string

	PromptDeleteSelect  string
	PromptDeleteConfirm string
	PromptEmptyList     string

	RejectName       string
	RejectNameExists string
	RejectURL        string
	RejectText       string
	RejectMedia      string

	Created string
	Updated string
	Deleted string
	Failed  string

	AxisName    string
	AxisContent string
	Yes         string
	No          string
	Back        string
	Prev        string
	Next        string
}

// DefaultCopy returns the Russian copy the bot ships with.
func DefaultCopy() Copy {
	return Copy{
		PromptName:        "Введите название:",
		PromptContentKind: "Выбирите способ передачи информации:",
		PromptURL:         "Ссылка обязательно должна начинаться с 'https://'\n\n Введите адрес ссылки:",
		PromptText:        "Введите описание:",
		PromptMedia:       "Добавьте картинку и текст к ней. Длина текста не должна превышать 2200 символов:",

		PromptUpdateSelect: "Какой объект отредактировать?",
		PromptUpdateField:  "Выбирите данные для обновления:",
		PromptCurrentName:  "Текущее название: \n\n %s \n\n Введите новое:",
		PromptCurrentURL:   "Текущий адрес ссылки: \n\n %s \n\n Введите новый:",
		PromptCurrentText:  "Текущий текст: \n\n %s \n\n Введите новый:",
		PromptCurrentMedia: "Текущая картинка:\n\nДобавьте новую картинку и описание",

		PromptDeleteSelect:  "Какие данные удалить?",
		PromptDeleteConfirm: "Вы уверены, что хотите удалить эти данные?\n\n %s",
		PromptEmptyList:     "Список пуст.",

		RejectName:       "Слишком длинное название для кнопки! Из-за ограничений телеграма могут возникнуть проблемы :( Попробуйте ввести название покороче.",
		RejectNameExists: "Данные с таким названием уже есть. Введите другое название.",
		RejectURL:        "Некорректный URL. Попробуйте добавить заново.",
		RejectText:       "Текст не может быть пустым. Попробуйте еще раз.",
		RejectMedia:      "Не удалось получить картинку. Попробуйте добавить заново.",

		Created: "Данные добавлены!",
		Updated: "Данные обновлены!",
		Deleted: "Данные удалены!",
		Failed:  "Произошла ошибка, данные не сохранены. Попробуйте позже.",

		AxisName:    "Название",
		AxisContent: "Содержание",
		Yes:         "Да",
		No:          "Нет",
		Back:        "Назад",
		Prev:        "◀️ Предыдущая",
		Next:        "Следующая ▶️",
	}
}

func (c Copy) merged(defaults Copy) Copy {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.PromptName, defaults.PromptName)
	fill(&c.PromptContentKind, defaults.PromptContentKind)
	fill(&c.PromptURL, defaults.PromptURL)
	fill(&c.PromptText, defaults.PromptText)
	fill(&c.PromptMedia, defaults.PromptMedia)
	fill(&c.PromptUpdateSelect, defaults.PromptUpdateSelect)
	fill(&c.PromptUpdateField, defaults.PromptUpdateField)
	fill(&c.PromptCurrentName, defaults.PromptCurrentName)
	fill(&c.PromptCurrentURL, defaults.PromptCurrentURL)
	fill(&c.PromptCurrentText, defaults.PromptCurrentText)
	fill(&c.PromptCurrentMedia, defaults.PromptCurrentMedia)
	fill(&c.PromptDeleteSelect, defaults.PromptDeleteSelect)
	fill(&c.PromptDeleteConfirm, defaults.PromptDeleteConfirm)
	fill(&c.PromptEmptyList, defaults.PromptEmptyList)
	fill(&c.RejectName, defaults.RejectName)
	fill(&c.RejectNameExists, defaults.RejectNameExists)
	fill(&c.RejectURL, defaults.RejectURL)
	fill(&c.RejectText, defaults.RejectText)
	fill(&c.RejectMedia, defaults.RejectMedia)
	fill(&c.Created, defaults.Created)
	fill(&c.Updated, defaults.Updated)
	fill(&c.Deleted, defaults.Deleted)
	fill(&c.Failed, defaults.Failed)
	fill(&c.AxisName, defaults.AxisName)
	fill(&c.AxisContent, defaults.AxisContent)
	fill(&c.Yes, defaults.Yes)
	fill(&c.No, defaults.No)
	fill(&c.Back, defaults.Back)
	fill(&c.Prev, defaults.Prev)
	fill(&c.Next, defaults.Next)
	return c
}
