package types

// Stats は、ページから抽出された統計値と国名リストを保持します。
// Extractor が生成し、Presenter が読み取るだけで、生成後に変更されることはありません。
type Stats struct {
	Cases        string   // 累計感染者数 (桁区切りを含むテキストそのまま)
	Death        string   // 累計死者数
	Recovered    string   // 累計回復者数
	TopCountries []string // 上位の国名 (文書順、最大9件)
}
