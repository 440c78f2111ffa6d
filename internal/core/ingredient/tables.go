package ingredient

// DefaultTables 內建的韓文食材詞典資料
func DefaultTables() Tables {
	return Tables{
		Synonyms:        defaultSynonyms,
		Categories:      defaultCategories,
		Abstract:        defaultAbstract,
		GenericPrefixes: []string{"각종", "모듬", "모둠", "여러가지", "기타", "제철", "아무"},
		PrepPrefixes: []string{
			"다진", "다져진", "채썬", "채친", "얇게썬", "깍둑썬", "송송썬", "어슷썬", "먹기좋게썬",
			"삶은", "데친", "볶은", "구운", "튀긴", "불린", "말린", "손질한", "손질된", "다듬은",
			"냉동", "냉장", "생물", "국물용", "찌개용", "볶음용", "구이용", "국거리",
			"CJ", "오뚜기", "청정원", "백설", "해찬들", "비비고", "풀무원", "대상", "샘표",
		},
		Seasonings: []string{
			"소금", "설탕", "후추", "참기름", "들기름", "식용유", "올리브유", "깨",
			"간장", "된장", "고춧가루", "마늘", "대파", "생강", "맛술", "청주",
			"식초", "올리고당", "물엿", "굴소스", "물", "다시다", "액젓", "매실액", "카레가루",
		},
		Units:        defaultUnits,
		Vague:        defaultVague,
		OptionalTags: []string{"선택", "생략가능", "생략 가능", "옵션", "선택사항", "optional", "can omit"},
		GarnishTags:  []string{"장식용", "장식", "고명", "토핑", "garnish"},
		OptionalHints: []string{
			"생략가능", "생략 가능", "있으면", "없어도", "없으면생략", "선택사항",
		},
	}
}

var defaultSynonyms = map[string][]string{
	// 육류
	"돼지고기": {"돼지", "삼겹살", "목살", "앞다리살", "뒷다리살", "항정살", "대패삼겹살", "돼지목살", "돼지앞다리살", "제육용", "수육용", "갈비살"},
	"소고기":  {"쇠고기", "한우", "양지", "사태", "우둔", "채끝", "불고기감", "소불고기", "차돌박이", "국거리용소고기"},
	"닭고기":  {"닭", "닭가슴살", "닭다리", "닭다리살", "닭날개", "닭봉", "닭안심", "영계", "손질닭"},
	"다진고기": {"다진돼지고기", "다진소고기", "다짐육", "간고기"},
	"오리고기": {"훈제오리", "오리"},
	"베이컨":  {"bacon"},
	"햄":    {"스팸", "런천미트", "슬라이스햄", "통조림햄"},
	"소시지":  {"비엔나소시지", "소세지", "비엔나"},

	// 해산물
	"새우":  {"칵테일새우", "흰다리새우", "생새우", "대하", "깐새우"},
	"오징어": {"한치", "갑오징어", "물오징어"},
	"문어":  {"자숙문어", "돌문어"},
	"낙지":  {"세발낙지"},
	"조개":  {"바지락", "모시조개", "조갯살", "바지락살"},
	"홍합":  {"홍합살"},
	"고등어": {"자반고등어", "고등어살"},
	"참치":  {"참치캔", "참치통조림"},
	"멸치":  {"국물용멸치", "잔멸치", "볶음용멸치", "다시멸치"},
	"어묵":  {"오뎅", "사각어묵", "부산어묵", "어묵탕용"},
	"미역":  {"건미역", "자른미역"},

	// 채소
	"양파":   {"적양파", "자색양파", "햇양파"},
	"대파":   {"파", "쪽파", "실파", "파채", "대파흰부분"},
	"마늘":   {"다진마늘", "통마늘", "깐마늘", "마늘가루"},
	"생강":   {"생강즙", "생강가루", "다진생강"},
	"고추":   {"청고추", "홍고추", "청양고추", "풋고추", "꽈리고추"},
	"감자":   {"햇감자", "알감자"},
	"고구마":  {"밤고구마", "호박고구마"},
	"당근":   {"carrot"},
	"무":    {"무우", "무채"},
	"애호박":  {"호박", "쥬키니", "주키니"},
	"배추":   {"알배기배추", "알배추", "배춧잎", "쪽배추", "봄동"},
	"양배추":  {"적양배추"},
	"브로콜리": {"브로컬리"},
	"파프리카": {"피망", "빨간파프리카", "노란파프리카"},
	"토마토":  {"방울토마토", "완숙토마토"},
	"버섯":   {"느타리버섯", "팽이버섯", "새송이버섯", "표고버섯", "양송이버섯", "느타리", "팽이", "새송이", "표고", "양송이"},
	"시금치":  {"섬초"},
	"깻잎":   {"들깻잎"},
	"콩나물":  {"콩나물무침용"},
	"숙주":   {"숙주나물"},
	"부추":   {"영양부추"},
	"상추":   {"청상추", "적상추"},
	"오이":   {"백오이", "취청오이"},
	"김치":   {"배추김치", "묵은지", "포기김치", "신김치", "익은김치"},

	// 곡물
	"밥":   {"쌀밥", "햇반", "찬밥", "흰밥", "현미밥"},
	"쌀":   {"백미", "현미", "찹쌀"},
	"면":   {"소면", "중면", "우동면", "칼국수면", "라면사리", "쌀국수", "스파게티면"},
	"파스타": {"스파게티", "펜네", "링귀니"},
	"당면":  {"납작당면"},
	"떡":   {"가래떡", "떡국떡", "떡볶이떡", "조랭이떡"},
	"밀가루": {"중력분", "박력분", "강력분", "부침가루", "튀김가루"},
	"빵":   {"식빵", "모닝빵", "바게트"},

	// 유제품 및 기타
	"우유":  {"milk", "저지방우유"},
	"치즈":  {"모짜렐라치즈", "모차렐라치즈", "체다치즈", "슬라이스치즈", "파마산치즈", "피자치즈"},
	"버터":  {"무염버터", "가염버터"},
	"생크림": {"휘핑크림"},
	"달걀":  {"계란", "계란물", "달걀물", "유정란", "계란노른자", "달걀노른자", "egg"},
	"두부":  {"연두부", "순두부", "부침두부", "찌개두부"},
	"만두":  {"군만두", "물만두", "냉동만두", "고기만두", "김치만두"},

	// 양념
	"간장":   {"진간장", "국간장", "양조간장", "조선간장", "맛간장"},
	"고추장":  {"초고추장"},
	"된장":   {"재래된장", "집된장"},
	"고춧가루": {"고추가루", "굵은고춧가루", "고운고춧가루"},
	"소금":   {"천일염", "굵은소금", "꽃소금", "맛소금"},
	"설탕":   {"백설탕", "황설탕", "흑설탕"},
	"후추":   {"후춧가루", "후추가루", "통후추", "흑후추"},
	"식용유":  {"기름", "오일", "카놀라유", "포도씨유", "콩기름"},
	"참기름":  {"sesame oil"},
	"들기름":  {},
	"올리브유": {"올리브오일", "엑스트라버진올리브유"},
	"깨":    {"통깨", "참깨", "깨소금", "볶은깨"},
	"맛술":   {"미림", "미향"},
	"청주":   {"정종"},
	"식초":   {"사과식초", "현미식초"},
	"물엿":   {"조청"},
	"올리고당": {},
	"굴소스":  {},
	"물":    {"생수", "정수물"},
	"액젓":   {"멸치액젓", "까나리액젓", "피시소스"},
}

// 先比對的分類優先，避免「고추장」被歸為蔬菜
var defaultCategories = []CategoryRule{
	{CategorySeasoning, []string{
		"간장", "고추장", "된장", "쌈장", "고춧가루", "소금", "설탕", "후추", "식초", "참기름", "들기름",
		"식용유", "올리브유", "맛술", "청주", "물엿", "올리고당", "굴소스", "액젓", "젓갈", "양념", "소스",
		"케첩", "케찹", "마요네즈", "카레", "다시다", "조미료", "향신료", "깨", "물", "매실액",
	}},
	{CategoryMeat, []string{
		"돼지고기", "소고기", "닭고기", "오리고기", "양고기", "다진고기", "고기", "육류",
		"베이컨", "햄", "소시지", "갈비",
	}},
	{CategorySeafood, []string{
		"새우", "오징어", "문어", "낙지", "주꾸미", "조개", "홍합", "굴", "전복", "게", "꽃게",
		"고등어", "참치", "멸치", "생선", "어묵", "연어", "명태", "황태", "코다리", "해산물", "미역", "다시마",
	}},
	{CategoryVegetable, []string{
		"채소", "야채", "양파", "대파", "파", "마늘", "생강", "고추", "당근", "무", "배추", "양배추",
		"시금치", "상추", "깻잎", "감자", "고구마", "호박", "버섯", "브로콜리", "파프리카", "토마토",
		"콩나물", "숙주", "부추", "오이", "김치", "가지", "연근", "우엉",
	}},
	{CategoryGrain, []string{
		"쌀", "밥", "밀가루", "면", "국수", "파스타", "빵", "떡", "당면", "라면", "전분", "곡물", "오트밀",
	}},
	{CategoryDairy, []string{
		"우유", "치즈", "버터", "요구르트", "요거트", "생크림", "크림", "유제품",
	}},
}

var defaultAbstract = map[string]string{
	"고기":  "소고기",
	"육류":  "소고기",
	"채소":  "배추",
	"야채":  "배추",
	"양념":  "간장",
	"소스":  "간장",
	"향신료": "후추",
	"조미료": "소금",
	"과일":  "사과",
	"해산물": "새우",
	"해물":  "새우",
	"생선":  "고등어",
	"곡물":  "쌀",
	"유제품": "우유",
	"고기류": "소고기",
	"채소류": "배추",
	"야채류": "배추",
	"해물류": "새우",
	"과일류": "사과",
}

var defaultUnits = map[string][]string{
	"큰술":  {"T", "Tbsp", "tbsp", "TBSP", "tablespoon", "테이블스푼", "밥숟가락", "숟가락", "스푼", "수저", "큰스푼", "숟갈"},
	"작은술": {"t", "tsp", "TSP", "teaspoon", "티스푼", "찻숟가락", "작은스푼"},
	"컵":   {"C", "cup", "종이컵"},
	"ml":  {"mL", "ML", "cc", "CC", "밀리리터", "미리"},
	"L":   {"l", "리터"},
	"g":   {"G", "gram", "gr", "그램"},
	"kg":  {"KG", "Kg", "킬로그램", "킬로"},
	"mg":  {},
	"개":   {"알", "ea", "EA"},
	"쪽":   {},
	"톨":   {},
	"장":   {},
	"줄기":  {},
	"대":   {},
	"뿌리":  {},
	"잎":   {},
	"송이":  {},
	"마리":  {},
	"조각":  {},
	"토막":  {},
	"덩어리": {"덩이"},
	"봉지":  {"봉"},
	"통":   {},
	"캔":   {},
	"병":   {},
	"팩":   {},
	"줌":   {},
	"꼬집":  {},
	"국자":  {},
	"공기":  {},
	"모":   {},
	"인분":  {},
	"방울":  {},
	"단":   {},
	"근":   {},
}

var defaultVague = []VaguePhrase{
	{"약간", VagueSmall},
	{"조금", VagueSmall},
	{"살짝", VagueSmall},
	{"소량", VagueSmall},
	{"톡톡", VagueSmall},
	{"한꼬집", VagueSmall},
	{"한줌", VagueSmall},
	{"많이", VagueLarge},
	{"듬뿍", VagueLarge},
	{"넉넉히", VagueLarge},
	{"넉넉하게", VagueLarge},
	{"충분히", VagueLarge},
	{"다량", VagueLarge},
	{"기호에 따라", VagueToTaste},
	{"기호에 맞게", VagueToTaste},
	{"기호껏", VagueToTaste},
	{"취향껏", VagueToTaste},
	{"취향에 따라", VagueToTaste},
	{"입맛에 따라", VagueToTaste},
	{"적당량", VagueAsNeeded},
	{"적당히", VagueAsNeeded},
	{"적당하게", VagueAsNeeded},
	{"적절히", VagueAsNeeded},
	{"필요시", VagueAsNeeded},
	{"필요한 만큼", VagueAsNeeded},
	{"대충", VagueAsNeeded},
}
