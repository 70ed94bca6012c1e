package labanalysis

// SampleReport is the canned demo input for the "try an example" mode.
const SampleReport = `Биохимический анализ крови
Пациент: демо
Глюкоза: 5.1 ммоль/л (норма 3,9 - 5,5)
Гликированный гемоглобин (HbA1c): 5.4 %
Общий холестерин: 6.1 ммоль/л (норма до 5,2)
Витамин D (25(OH)D): 22 нг/мл (норма 30 - 60)
Ферритин: 18 мкг/л (норма 30 - 150)
Гемоглобин: 128 г/л (норма 120 - 160)
ТТГ: 2.4 мМЕ/л (норма 0,4 - 4,0)
С-реактивный белок: 3.1 мг/л (норма до 5)
ALT: 28 Ед/л (норма до 35)
AST: 24 Ед/л (норма до 35)
Лейкоциты: 5.6 10 ^ 9 /л (норма 4 - 9)
Тромбоциты: 245 10 ^ 9 /л (норма 150 - 400)`
